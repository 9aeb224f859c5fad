package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, color.RedString("Alas, there's been an error: %v", err))
		os.Exit(1)
	}
}
