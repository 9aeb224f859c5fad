package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ani/ani-scrape/fetcher/anitaku"
	"github.com/ani/ani-scrape/fetcher/gogoanimeby"
	"github.com/ani/ani-scrape/httpx"
	"github.com/ani/ani-scrape/types"
)

// Fetcher is what every supported site implements, so callers never care
// which site they are talking to.
type Fetcher interface {
	Name() string
	GetPopular(ctx context.Context, page int) ([]types.AniEntry, error)
	GetDetails(ctx context.Context, id string) (*types.AniDetails, error)
	Search(ctx context.Context, keyword string, page int) ([]types.AniEntry, error)
	GetWatchingLinks(ctx context.Context, id string, episode int) (*types.AniWatchLinks, error)
	GetGenre(ctx context.Context, genre string, page int) ([]types.AniEntry, error)
	GetRecentlyAdded(ctx context.Context, page int) ([]types.AniEntry, error)
	GetGenreList(ctx context.Context) ([]string, error)
	GetAnimeList(ctx context.Context, variable string, page int) ([]types.AniListItem, error)
}

// Constructor builds a site fetcher rooted at baseURL.
type Constructor func(baseURL string, g httpx.Getter) Fetcher

type site struct {
	defaultBaseURL string
	new            Constructor
}

var sites = make(map[string]site)

const (
	AnitakuFetcher     = "anitaku"
	GogoanimeByFetcher = "gogoanimeby"

	DefaultFetcher = AnitakuFetcher
)

func init() {
	Register(AnitakuFetcher, anitaku.DefaultBaseURL, func(baseURL string, g httpx.Getter) Fetcher {
		return anitaku.New(baseURL, g)
	})
	Register(GogoanimeByFetcher, gogoanimeby.DefaultBaseURL, func(baseURL string, g httpx.Getter) Fetcher {
		return gogoanimeby.New(baseURL, g)
	})
}

// Register adds a site. Names are case insensitive.
func Register(name, defaultBaseURL string, c Constructor) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || c == nil {
		return errors.New("fetcher needs a name and a constructor")
	}
	if _, ok := sites[name]; ok {
		return fmt.Errorf("fetcher %q already registered", name)
	}
	sites[name] = site{defaultBaseURL: defaultBaseURL, new: c}
	return nil
}

// ErrUnknownSite is returned by New for names nobody registered.
var ErrUnknownSite = errors.New("fetcher name is unknown")

// New builds the fetcher registered under name. An empty baseURL picks the
// site's default mirror.
func New(name, baseURL string, g httpx.Getter) (Fetcher, error) {
	s, ok := sites[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSite, name)
	}
	if g == nil {
		return nil, errors.New("fetcher needs a page getter")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = s.defaultBaseURL
	}
	return s.new(strings.TrimRight(baseURL, "/"), g), nil
}

// Sites lists the registered site names, sorted.
func Sites() []string {
	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultBaseURL returns the mirror a site uses when none is configured.
func DefaultBaseURL(name string) string {
	return sites[strings.ToLower(strings.TrimSpace(name))].defaultBaseURL
}
