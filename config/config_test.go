package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ani/ani-scrape/fetcher"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ANI_SCRAPE_SITE", "ANI_SCRAPE_BASE_URL", "ANI_SCRAPE_TRANSPORT", "ANI_SCRAPE_ADDR", "ANI_SCRAPE_DOWNLOAD_DIR"} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, source, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"), Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "(default config)" {
		t.Fatalf("source = %q", source)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("got %+v\nwant %+v", cfg, DefaultConfig())
	}
}

func TestLoadFrom_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
site: GogoanimeBy
base_urls:
  gogoanimeby: https://mirror.test
transport: tls
timeout: 10s
quality: 720P
server:
  allowed_origins: ["https://a.test"]
`)
	cfg, source, err := LoadFrom(path, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != path {
		t.Fatalf("source = %q", source)
	}
	if cfg.Site != fetcher.GogoanimeByFetcher || cfg.Transport != "tls" || cfg.Timeout != 10*time.Second || cfg.Quality != "720P" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if got := cfg.BaseURL("gogoanimeby"); got != "https://mirror.test" {
		t.Fatalf("BaseURL = %q", got)
	}
	if cfg.BaseURL(fetcher.AnitakuFetcher) != "" {
		t.Fatal("expected no base url for anitaku")
	}
	// defaults survive a partial file
	if cfg.Server.Addr != "127.0.0.1:8090" || cfg.Server.ShutdownWait != 5*time.Second || cfg.DownloadDir != "." {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadFrom_EnvThenOptions(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANI_SCRAPE_SITE", "gogoanimeby")
	t.Setenv("ANI_SCRAPE_BASE_URL", "https://env.test")
	t.Setenv("ANI_SCRAPE_TRANSPORT", "browser")
	t.Setenv("ANI_SCRAPE_ADDR", ":9000")
	t.Setenv("ANI_SCRAPE_DOWNLOAD_DIR", "/tmp/anime")
	path := writeFile(t, "site: anitaku\ntransport: http\n")

	cfg, _, err := LoadFrom(path, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Site != "gogoanimeby" || cfg.Transport != "browser" || cfg.Server.Addr != ":9000" || cfg.DownloadDir != "/tmp/anime" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.BaseURL("gogoanimeby") != "https://env.test" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL("gogoanimeby"))
	}

	cfg, _, err = LoadFrom(path, Options{Site: "anitaku", BaseURL: "https://flag.test", Transport: "tls", Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Site != "anitaku" || cfg.Transport != "tls" || cfg.Timeout != time.Second {
		t.Fatalf("options not applied: %+v", cfg)
	}
	if cfg.BaseURL("anitaku") != "https://flag.test" {
		t.Fatalf("BaseURL = %q", cfg.BaseURL("anitaku"))
	}
}

func TestLoadFrom_EnvBaseURLFollowsSiteFlag(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANI_SCRAPE_BASE_URL", "https://mirror.test")

	cfg, _, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"), Options{Site: "GogoanimeBy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.BaseURL("gogoanimeby"); got != "https://mirror.test" {
		t.Fatalf("BaseURL(gogoanimeby) = %q", got)
	}
	if got := cfg.BaseURL("anitaku"); got != "" {
		t.Fatalf("mirror leaked to the default site: %q", got)
	}
}

func TestLoadFrom_IgnoreConfig(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "site: gogoanimeby\n")
	cfg, source, err := LoadFrom(path, Options{IgnoreConfig: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != "(ignored config)" || cfg.Site != fetcher.DefaultFetcher {
		t.Fatalf("got %q %+v", source, cfg)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	clearEnv(t)

	if _, _, err := LoadFrom(writeFile(t, "site: [oops"), Options{}); err == nil {
		t.Fatal("expected a parse error")
	}
	if _, _, err := LoadFrom(writeFile(t, "transport: carrier-pigeon\n"), Options{}); err == nil {
		t.Fatal("expected an unknown transport error")
	}
	_, _, err := LoadFrom(writeFile(t, "site: crunchyroll\n"), Options{})
	if !errors.Is(err, fetcher.ErrUnknownSite) {
		t.Fatalf("expected ErrUnknownSite, got %v", err)
	}
}

func TestSaveYAML_RoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := DefaultConfig()
	want.Quality = "1080P"
	want.BaseURLs = map[string]string{"anitaku": "https://mirror.test"}

	if err := SaveYAML(want, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _, err := LoadFrom(path, Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}
