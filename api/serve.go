package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type ServerConfig struct {
	// ShowStartBanner indicates whether to show or hide the server start console message.
	ShowStartBanner bool

	// HttpAddr is the TCP address to listen for the HTTP server (eg. `127.0.0.1:80`).
	HttpAddr string

	// AllowedOrigins is an optional list of CORS origins (default to "*").
	AllowedOrigins []string

	TimeToWaitBeforeGracefulShutdown time.Duration
}

// NewApp builds the fiber app with cors and every route mounted. Handlers see
// ctx through c.UserContext(), so cancelling it aborts in flight scrapes.
func NewApp(ctx context.Context, cfg *ServerConfig, sites Resolver) *fiber.App {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	app := InitApp()
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: strings.Join([]string{http.MethodGet, http.MethodHead}, ","),
	}))
	// the adaptor does not carry the net/http request context over
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(ctx)
		return c.Next()
	})
	InitiateRoutes(app, sites)
	return app
}

// Serve blocks until the server stops. Once ctx is done the server stops
// accepting requests and in flight scrapes are cancelled after the configured
// grace period.
func Serve(ctx context.Context, cfg *ServerConfig, sites Resolver) error {
	// base request context used for cancelling in flight scrapes on shutdown
	baseCtx, cancelBaseCtx := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelBaseCtx()

	app := NewApp(baseCtx, cfg, sites)
	server := &http.Server{
		Handler:           adaptor.FiberApp(app),
		ReadTimeout:       time.Minute,
		ReadHeaderTimeout: 30 * time.Second,
		Addr:              cfg.HttpAddr,
		BaseContext: func(l net.Listener) context.Context {
			return baseCtx
		},
	}

	if cfg.ShowStartBanner {
		printBanner(server.Addr)
	}

	stopped := make(chan struct{})
	defer close(stopped)
	drained := make(chan struct{})

	go func() {
		select {
		case <-stopped:
			return
		case <-ctx.Done():
		}
		defer close(drained)
		ttw := cfg.TimeToWaitBeforeGracefulShutdown // time to wait
		if ttw == 0 {
			ttw = time.Second * 5
		}
		fmt.Printf("Gracefully shutting down..., waiting %v seconds\n", ttw.Seconds())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ttw)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		cancelBaseCtx()
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-drained
		return nil
	}
	return err
}

func printBanner(addr string) {
	schema := "http"

	date := new(strings.Builder)
	log.New(date, "", log.LstdFlags).Print()

	bold := color.New(color.Bold).Add(color.FgGreen)
	bold.Printf(
		"%s Server started at %s\n",
		strings.TrimSpace(date.String()),
		color.CyanString("%s://%s", schema, addr),
	)

	regular := color.New()
	regular.Printf("├─ Sites: %s\n", color.CyanString("%s://%s%s", schema, addr, sitesUrl))
	regular.Printf("├─ Popular: %s\n", color.CyanString("%s://%s%s/<site>/popular?page=1", schema, addr, baseUrl))
	regular.Printf("└─ Search: %s\n", color.CyanString("%s://%s%s/<site>/search?keyword=naruto", schema, addr, baseUrl))
}
