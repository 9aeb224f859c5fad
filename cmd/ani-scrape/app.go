package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ani/ani-scrape/config"
	"github.com/ani/ani-scrape/fetcher"
	"github.com/ani/ani-scrape/httpx"
)

var pageFlag = &cli.IntFlag{Name: "page", Aliases: []string{"p"}, Value: 1, Usage: "result page, starting at 1"}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ani-scrape",
		Usage: "browse anime sites from the terminal: listings, details and download links",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "site", Aliases: []string{"s"}, Usage: "site to scrape (see `ani-scrape sites`)"},
			&cli.StringFlag{Name: "base-url", Usage: "mirror to use instead of the site default"},
			&cli.StringFlag{Name: "transport", Aliases: []string{"t"}, Usage: "page fetcher: http, tls or browser"},
			&cli.DurationFlag{Name: "timeout", Usage: "per request timeout"},
			&cli.BoolFlag{Name: "ignore-config", Usage: "skip the config file"},
			&cli.BoolFlag{Name: "json", Usage: "print results as json"},
		},
		Commands: []*cli.Command{
			popularCommand(),
			detailsCommand(),
			searchCommand(),
			watchCommand(),
			genreCommand(),
			recentCommand(),
			genresCommand(),
			listCommand(),
			downloadCommand(),
			playCommand(),
			browseCommand(),
			serveCommand(),
			sitesCommand(),
			configCommand(),
		},
	}
}

// loadConfig layers the config file, the environment and the global flags.
func loadConfig(c *cli.Context) (*config.Config, string, error) {
	return config.Load(config.Options{
		IgnoreConfig: c.Bool("ignore-config"),
		Site:         c.String("site"),
		BaseURL:      c.String("base-url"),
		Transport:    c.String("transport"),
		Timeout:      c.Duration("timeout"),
	})
}

// session is what every scraping command needs. The getter behind f is
// closed when the command returns.
type session struct {
	cfg *config.Config
	f   fetcher.Fetcher
	out printer
}

func withSession(run func(ctx context.Context, s *session, c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, _, err := loadConfig(c)
		if err != nil {
			return err
		}
		g, err := httpx.New(cfg.Transport, cfg.HTTPOptions())
		if err != nil {
			return err
		}
		defer g.Close()

		f, err := fetcher.New(cfg.Site, cfg.BaseURL(cfg.Site), g)
		if err != nil {
			return err
		}
		return run(c.Context, &session{cfg: cfg, f: f, out: newPrinter(c)}, c)
	}
}

func newPrinter(c *cli.Context) printer {
	var w io.Writer = c.App.Writer
	return printer{w: w, json: c.Bool("json")}
}

func argInt(c *cli.Context, i int, name string) (int, error) {
	raw := c.Args().Get(i)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return n, nil
}

func argString(c *cli.Context, i int, name string) (string, error) {
	v := strings.TrimSpace(c.Args().Get(i))
	if v == "" {
		return "", fmt.Errorf("missing %s", name)
	}
	return v, nil
}
