// Package config loads the ani-scrape settings: a YAML file in the user
// config dir, then ANI_SCRAPE_* environment variables, then command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kirsle/configdir"
	"gopkg.in/yaml.v3"

	"github.com/ani/ani-scrape/fetcher"
	"github.com/ani/ani-scrape/httpx"
)

const (
	appName  = "ani-scrape"
	fileName = "config.yaml"
)

type Config struct {
	Site       string            `yaml:"site"`
	BaseURLs   map[string]string `yaml:"base_urls,omitempty"`
	Transport  string            `yaml:"transport"`
	Timeout    time.Duration     `yaml:"timeout"`
	UserAgent  string            `yaml:"user_agent,omitempty"`
	Cloudflare bool              `yaml:"cloudflare"`

	Server Server `yaml:"server"`

	DownloadDir string `yaml:"download_dir"`
	// preferred size label, e.g. "1080P"; empty takes the first link
	Quality string `yaml:"quality,omitempty"`
}

type Server struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins,omitempty"`
	ShutdownWait   time.Duration `yaml:"shutdown_wait"`
}

// Options are the command line overrides. Zero values leave the config alone.
type Options struct {
	IgnoreConfig bool
	Site         string
	BaseURL      string
	Transport    string
	Timeout      time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Site:        fetcher.DefaultFetcher,
		Transport:   httpx.TransportHTTP,
		Timeout:     httpx.DefaultTimeout,
		DownloadDir: ".",
		Server: Server{
			Addr:         "127.0.0.1:8090",
			ShutdownWait: 5 * time.Second,
		},
	}
}

// Path is where the config file lives, e.g. ~/.config/ani-scrape/config.yaml.
func Path() string {
	return filepath.Join(configdir.LocalConfig(appName), fileName)
}

func SaveYAML(cfg *Config, path string) error {
	if err := configdir.MakePath(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadYAML reads path on top of the defaults, so a partial file keeps the
// defaults for everything it leaves out.
func LoadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

// Load is LoadFrom(Path(), opts).
func Load(opts Options) (*Config, string, error) {
	return LoadFrom(Path(), opts)
}

// LoadFrom merges the file at path, the environment and opts, in that order.
// A missing file is not an error. The second return value names the source.
func LoadFrom(path string, opts Options) (*Config, string, error) {
	source := path
	cfg := DefaultConfig()
	if opts.IgnoreConfig {
		source = "(ignored config)"
	} else {
		loaded, err := LoadYAML(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			source = "(default config)"
		case err != nil:
			return nil, "", err
		default:
			cfg = loaded
		}
	}

	mirror := mergeEnv(cfg, os.Getenv)
	mergeOptions(cfg, opts)
	normalizeDefaults(cfg)
	// a mirror from env or flags belongs to the site that ends up selected
	if opts.BaseURL != "" {
		mirror = opts.BaseURL
	}
	if mirror != "" {
		cfg.setBaseURL(cfg.Site, mirror)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, source, nil
}

// mergeEnv applies the environment to c and returns ANI_SCRAPE_BASE_URL,
// which is only attached once the final site is known.
func mergeEnv(c *Config, getenv func(string) string) string {
	if v := getenv("ANI_SCRAPE_SITE"); v != "" {
		c.Site = v
	}
	if v := getenv("ANI_SCRAPE_TRANSPORT"); v != "" {
		c.Transport = v
	}
	if v := getenv("ANI_SCRAPE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("ANI_SCRAPE_DOWNLOAD_DIR"); v != "" {
		c.DownloadDir = v
	}
	return getenv("ANI_SCRAPE_BASE_URL")
}

func mergeOptions(c *Config, o Options) {
	if o.Site != "" {
		c.Site = o.Site
	}
	if o.Transport != "" {
		c.Transport = o.Transport
	}
	if o.Timeout != 0 {
		c.Timeout = o.Timeout
	}
}

func normalizeDefaults(c *Config) {
	c.Site = strings.ToLower(strings.TrimSpace(c.Site))
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	if c.Site == "" {
		c.Site = fetcher.DefaultFetcher
	}
	if c.Transport == "" {
		c.Transport = httpx.TransportHTTP
	}
	if c.Timeout <= 0 {
		c.Timeout = httpx.DefaultTimeout
	}
	if c.DownloadDir == "" {
		c.DownloadDir = "."
	}
}

func (c *Config) Validate() error {
	switch c.Transport {
	case httpx.TransportHTTP, httpx.TransportTLS, httpx.TransportBrowser:
	default:
		return fmt.Errorf("config: unknown transport %q", c.Transport)
	}
	for _, s := range fetcher.Sites() {
		if s == c.Site {
			return nil
		}
	}
	return fmt.Errorf("config: %w: %q", fetcher.ErrUnknownSite, c.Site)
}

func (c *Config) setBaseURL(site, u string) {
	if c.BaseURLs == nil {
		c.BaseURLs = make(map[string]string)
	}
	c.BaseURLs[strings.ToLower(strings.TrimSpace(site))] = u
}

// BaseURL is the configured mirror for site, "" for the site default.
func (c *Config) BaseURL(site string) string {
	return c.BaseURLs[strings.ToLower(strings.TrimSpace(site))]
}

func (c *Config) HTTPOptions() httpx.Options {
	return httpx.Options{
		Timeout:    c.Timeout,
		UserAgent:  c.UserAgent,
		Cloudflare: c.Cloudflare,
	}
}

// Print lists the settings that differ from a bare run.
func (c *Config) Print() {
	fmt.Printf(" -site: %s\n", c.Site)
	if u := c.BaseURL(c.Site); u != "" {
		fmt.Printf(" -base_url: %s\n", u)
	}
	fmt.Printf(" -transport: %s\n", c.Transport)
	fmt.Printf(" -timeout: %s\n", c.Timeout)
	if c.UserAgent != "" {
		fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	}
	if c.Cloudflare {
		fmt.Printf(" -cloudflare: %t\n", c.Cloudflare)
	}
	fmt.Printf(" -download_dir: %s\n", c.DownloadDir)
	if c.Quality != "" {
		fmt.Printf(" -quality: %s\n", c.Quality)
	}
	fmt.Printf(" -server.addr: %s\n", c.Server.Addr)
	if len(c.Server.AllowedOrigins) > 0 {
		fmt.Printf(" -server.allowed_origins: %s\n", strings.Join(c.Server.AllowedOrigins, ", "))
	}
}
