package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/ani/ani-scrape/api"
	"github.com/ani/ani-scrape/config"
	"github.com/ani/ani-scrape/download"
	"github.com/ani/ani-scrape/fetcher"
	"github.com/ani/ani-scrape/gui"
	"github.com/ani/ani-scrape/httpx"
	"github.com/ani/ani-scrape/player"
)

func popularCommand() *cli.Command {
	return &cli.Command{
		Name:  "popular",
		Usage: "list popular anime",
		Flags: []cli.Flag{pageFlag},
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			entries, err := s.f.GetPopular(ctx, c.Int("page"))
			if err != nil {
				return err
			}
			return s.out.entries(entries)
		}),
	}
}

func detailsCommand() *cli.Command {
	return &cli.Command{
		Name:      "details",
		Usage:     "show the details page of an anime",
		ArgsUsage: "<id>",
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			id, err := argString(c, 0, "anime id")
			if err != nil {
				return err
			}
			d, err := s.f.GetDetails(ctx, id)
			if err != nil {
				return err
			}
			return s.out.details(d)
		}),
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "search anime by title",
		ArgsUsage: "<keyword...>",
		Flags:     []cli.Flag{pageFlag},
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			keyword := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if keyword == "" {
				return fmt.Errorf("missing keyword")
			}
			entries, err := s.f.Search(ctx, keyword, c.Int("page"))
			if err != nil {
				return err
			}
			return s.out.entries(entries)
		}),
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "resolve the download links of an episode",
		ArgsUsage: "<id> <episode>",
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			id, err := argString(c, 0, "anime id")
			if err != nil {
				return err
			}
			ep, err := argInt(c, 1, "episode")
			if err != nil {
				return err
			}
			links, err := s.f.GetWatchingLinks(ctx, id, ep)
			if err != nil {
				return err
			}
			return s.out.watchLinks(links)
		}),
	}
}

func genreCommand() *cli.Command {
	return &cli.Command{
		Name:      "genre",
		Usage:     "list anime of a genre",
		ArgsUsage: "<genre>",
		Flags:     []cli.Flag{pageFlag},
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			genre, err := argString(c, 0, "genre")
			if err != nil {
				return err
			}
			entries, err := s.f.GetGenre(ctx, genre, c.Int("page"))
			if err != nil {
				return err
			}
			return s.out.entries(entries)
		}),
	}
}

func recentCommand() *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "list recently released episodes",
		Flags: []cli.Flag{pageFlag},
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			entries, err := s.f.GetRecentlyAdded(ctx, c.Int("page"))
			if err != nil {
				return err
			}
			return s.out.entries(entries)
		}),
	}
}

func genresCommand() *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "list the genres of the site",
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			genres, err := s.f.GetGenreList(ctx)
			if err != nil {
				return err
			}
			return s.out.lines(genres)
		}),
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "alphabetical anime list; variable is a letter or \"all\"",
		ArgsUsage: "[variable]",
		Flags:     []cli.Flag{pageFlag},
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			variable := c.Args().First()
			if variable == "" {
				variable = "all"
			}
			items, err := s.f.GetAnimeList(ctx, variable, c.Int("page"))
			if err != nil {
				return err
			}
			return s.out.listItems(items)
		}),
	}
}

func downloadCommand() *cli.Command {
	return &cli.Command{
		Name:      "download",
		Usage:     "download one episode, or every episode with --all",
		ArgsUsage: "<id> [episode]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "download every episode"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"o"}, Usage: "output directory (default: download_dir from the config)"},
			&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Usage: "preferred size label, e.g. 720P"},
		},
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			id, err := argString(c, 0, "anime id")
			if err != nil {
				return err
			}
			dir := c.String("dir")
			if dir == "" {
				dir = filepath.Join(s.cfg.DownloadDir, id)
			}
			quality := c.String("quality")
			if quality == "" {
				quality = s.cfg.Quality
			}
			d := download.New(s.f, quality)

			if c.Bool("all") {
				paths, err := d.DownloadAllEpisodes(ctx, id, dir)
				if err != nil {
					return err
				}
				return s.out.lines(paths)
			}
			ep, err := argInt(c, 1, "episode")
			if err != nil {
				return err
			}
			path, err := d.DownloadEpisode(ctx, id, ep, dir)
			if err != nil {
				return err
			}
			return s.out.lines([]string{path})
		}),
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:      "play",
		Usage:     "play an episode with mpv or vlc",
		ArgsUsage: "<id> <episode>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Usage: "preferred size label, e.g. 720P"},
		},
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			id, err := argString(c, 0, "anime id")
			if err != nil {
				return err
			}
			ep, err := argInt(c, 1, "episode")
			if err != nil {
				return err
			}
			quality := c.String("quality")
			if quality == "" {
				quality = s.cfg.Quality
			}
			link, _, err := download.New(s.f, quality).Resolve(ctx, id, ep)
			if err != nil {
				return err
			}
			return player.RunVideo(ctx, link.Src, fmt.Sprintf("%s - episode %d - %s", id, ep, link.Size))
		}),
	}
}

func browseCommand() *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "interactive search, pick and play",
		Action: withSession(func(ctx context.Context, s *session, c *cli.Context) error {
			p := tea.NewProgram(gui.InitialModel(ctx, s.f, s.cfg.Quality), tea.WithContext(ctx))
			_, err := p.Run()
			return err
		}),
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve every site over a json http api",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (default: server.addr from the config)"},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := loadConfig(c)
			if err != nil {
				return err
			}
			g, err := httpx.New(cfg.Transport, cfg.HTTPOptions())
			if err != nil {
				return err
			}
			defer g.Close()

			addr := c.String("addr")
			if addr == "" {
				addr = cfg.Server.Addr
			}
			return api.Serve(c.Context, &api.ServerConfig{
				ShowStartBanner:                  true,
				HttpAddr:                         addr,
				AllowedOrigins:                   cfg.Server.AllowedOrigins,
				TimeToWaitBeforeGracefulShutdown: cfg.Server.ShutdownWait,
			}, api.NewResolver(g, cfg.BaseURL))
		},
	}
}

func sitesCommand() *cli.Command {
	return &cli.Command{
		Name:  "sites",
		Usage: "list the supported sites",
		Action: func(c *cli.Context) error {
			return newPrinter(c).sites(fetcher.Sites())
		},
	}
}

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "manage the config file",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write the default config file",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"}},
				Action: func(c *cli.Context) error {
					path := config.Path()
					if err := initConfig(path, c.Bool("force")); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "wrote %s\n", path)
					return nil
				},
			},
			{
				Name:  "show",
				Usage: "print the effective settings",
				Action: func(c *cli.Context) error {
					cfg, source, err := loadConfig(c)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "config: %s\n", source)
					cfg.Print()
					return nil
				},
			},
		},
	}
}

// initConfig writes the default config to path. An existing file is only
// replaced with force, whether or not it parses.
func initConfig(path string, force bool) error {
	if !force {
		_, err := config.LoadYAML(path)
		switch {
		case err == nil:
			return fmt.Errorf("%s already exists, use --force to overwrite it", path)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("%s exists but is not a valid config (%v), use --force to overwrite it", path, err)
		}
	}
	return config.SaveYAML(config.DefaultConfig(), path)
}
