package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

var ErrNoPlayer = errors.New("you don't have any players to play the episode, try installing vlc or mpv")

type Player struct {
	bin string

	args func(url, title string) []string
}

var players = []Player{
	{
		bin: "mpv",
		args: func(u, t string) []string {
			return []string{"--title=" + t, u}
		},
	},
	{
		bin: "vlc",
		args: func(u, t string) []string {
			return []string{"--play-and-exit", "--meta-title=" + t, u}
		},
	},
}

var lookPath = exec.LookPath

// pick returns the first installed player.
func pick() (Player, error) {
	for _, p := range players {
		if _, err := lookPath(p.bin); err == nil {
			return p, nil
		}
	}
	return Player{}, ErrNoPlayer
}

// RunVideo plays url and blocks until the player exits or ctx is done.
func RunVideo(ctx context.Context, url, title string) error {
	p, err := pick()
	if err != nil {
		return err
	}
	if out, err := exec.CommandContext(ctx, p.bin, p.args(url, title)...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", p.bin, err, out)
	}
	return nil
}
