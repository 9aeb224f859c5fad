package fetcher

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ani/ani-scrape/fetcher/anitaku"
	"github.com/ani/ani-scrape/fetcher/gogoanimeby"
	"github.com/ani/ani-scrape/httpx"
)

type nopGetter struct{ urls []string }

func (g *nopGetter) Get(ctx context.Context, url string) (string, error) {
	g.urls = append(g.urls, url)
	return "<html></html>", nil
}

func TestNew(t *testing.T) {
	g := &nopGetter{}

	f, err := New("anitaku", "", g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.(*anitaku.Anitaku); !ok || f.Name() != AnitakuFetcher {
		t.Fatalf("expected anitaku fetcher, got %T", f)
	}

	f, err = New(" GogoanimeBy ", "", g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.(*gogoanimeby.GogoanimeBy); !ok || f.Name() != GogoanimeByFetcher {
		t.Fatalf("expected gogoanimeby fetcher, got %T", f)
	}
}

func TestNew_UnknownSite(t *testing.T) {
	_, err := New("crunchyroll", "", &nopGetter{})
	if !errors.Is(err, ErrUnknownSite) {
		t.Fatalf("expected ErrUnknownSite, got %v", err)
	}
}

func TestNew_NilGetter(t *testing.T) {
	if _, err := New(DefaultFetcher, "", nil); err == nil {
		t.Fatal("expected an error for a nil getter")
	}
}

func TestNew_BaseURL(t *testing.T) {
	g := &nopGetter{}
	f, err := New(AnitakuFetcher, "https://mirror.test/", g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.GetPopular(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err = New(AnitakuFetcher, "", g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.GetPopular(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"https://mirror.test/popular.html?page=1",
		anitaku.DefaultBaseURL + "/popular.html?page=1",
	}
	if !reflect.DeepEqual(g.urls, want) {
		t.Fatalf("requested %v, want %v", g.urls, want)
	}
}

func TestRegister(t *testing.T) {
	if err := Register(AnitakuFetcher, "https://x.test", nil); err == nil {
		t.Fatal("expected an error for a missing constructor")
	}
	c := func(baseURL string, _ httpx.Getter) Fetcher { return anitaku.New(baseURL, nil) }
	if err := Register("", "https://x.test", c); err == nil {
		t.Fatal("expected an error for an empty name")
	}
	if err := Register("Anitaku", "https://x.test", c); err == nil {
		t.Fatal("expected an error for a duplicate name")
	}
	if err := Register("zz-mirror", "https://zz.test", c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { delete(sites, "zz-mirror") })

	if got := DefaultBaseURL("ZZ-Mirror"); got != "https://zz.test" {
		t.Fatalf("DefaultBaseURL = %q", got)
	}
	if got := Sites(); !reflect.DeepEqual(got, []string{AnitakuFetcher, GogoanimeByFetcher, "zz-mirror"}) {
		t.Fatalf("Sites() = %v", got)
	}
}

func TestSites(t *testing.T) {
	if got := Sites(); !reflect.DeepEqual(got, []string{AnitakuFetcher, GogoanimeByFetcher}) {
		t.Fatalf("Sites() = %v", got)
	}
	if got := DefaultBaseURL(GogoanimeByFetcher); got != gogoanimeby.DefaultBaseURL {
		t.Fatalf("DefaultBaseURL = %q", got)
	}
	if got := DefaultBaseURL("nope"); got != "" {
		t.Fatalf("DefaultBaseURL(unknown) = %q", got)
	}
}
