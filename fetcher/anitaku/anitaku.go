package anitaku

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ani/ani-scrape/httpx"
	"github.com/ani/ani-scrape/scrape"
	"github.com/ani/ani-scrape/types"
)

const DefaultBaseURL = "https://anitaku.pe"

// every anime link on the site starts with "/category/"
const categoryPrefixLen = 10

var categoryID = scrape.PrefixID(categoryPrefixLen)

type Anitaku struct {
	baseURL string
	g       httpx.Getter
}

func New(baseURL string, g httpx.Getter) *Anitaku {
	return &Anitaku{baseURL: baseURL, g: g}
}

func (a *Anitaku) Name() string { return "anitaku" }

func (a *Anitaku) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	html, err := a.g.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return scrape.Document(html)
}

func card(s *goquery.Selection) (types.AniEntry, error) {
	return scrape.Card(s, categoryID)
}

func (a *Anitaku) cards(ctx context.Context, pageURL string) ([]types.AniEntry, error) {
	doc, err := a.document(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return scrape.Cards(doc, ".img", card)
}

func (a *Anitaku) GetPopular(ctx context.Context, page int) ([]types.AniEntry, error) {
	return a.cards(ctx, fmt.Sprintf("%s/popular.html?page=%d", a.baseURL, page))
}

func (a *Anitaku) Search(ctx context.Context, keyword string, page int) ([]types.AniEntry, error) {
	return a.cards(ctx, fmt.Sprintf("%s/search.html?keyword=%s&page=%d", a.baseURL, url.QueryEscape(keyword), page))
}

func (a *Anitaku) GetGenre(ctx context.Context, genre string, page int) ([]types.AniEntry, error) {
	return a.cards(ctx, fmt.Sprintf("%s/genre/%s?page=%d", a.baseURL, url.PathEscape(genre), page))
}

// labeled info blocks of the details page, keyed by their <span> label
var infoLabels = map[string]func(d *types.AniDetails, text string){
	"Type: ": func(d *types.AniDetails, text string) {
		d.Type = strings.TrimSpace(scrape.Slice(text, 15, -5))
	},
	"Plot Summary: ": func(d *types.AniDetails, text string) {
		d.Summary = strings.TrimSpace(scrape.SliceFrom(text, 14))
	},
	"Released: ": func(d *types.AniDetails, text string) {
		d.Released = strings.TrimSpace(scrape.SliceFrom(text, 10))
	},
	"Status: ": func(d *types.AniDetails, text string) {
		d.Status = strings.TrimSpace(scrape.SliceFrom(text, 8))
	},
	"Genre: ": func(d *types.AniDetails, text string) {
		d.Genres = strings.ReplaceAll(strings.TrimSpace(scrape.Slice(text, 20, -4)), " ", ",")
	},
	"Other name: ": func(d *types.AniDetails, text string) {
		d.OtherName = strings.TrimSpace(scrape.SliceFrom(text, 12))
	},
}

func (a *Anitaku) GetDetails(ctx context.Context, id string) (*types.AniDetails, error) {
	doc, err := a.document(ctx, fmt.Sprintf("%s/category/%s", a.baseURL, id))
	if err != nil {
		return nil, err
	}
	return parseDetails(doc)
}

func parseDetails(doc *goquery.Document) (*types.AniDetails, error) {
	h1, err := scrape.First(doc.Selection, ".anime_info_body_bg h1")
	if err != nil {
		return nil, err
	}
	image, err := scrape.Attr(doc.Selection, ".anime_info_body_bg img", "src")
	if err != nil {
		return nil, err
	}
	d := &types.AniDetails{
		Title: strings.TrimSpace(h1.Text()),
		Image: image,
	}

	doc.Find("p.type").Each(func(i int, p *goquery.Selection) {
		label := p.Find("span").First()
		if label.Length() == 0 {
			return
		}
		if set, ok := infoLabels[label.Text()]; ok {
			set(d, p.Text())
		}
	})

	if ep, ok := doc.Find("#episode_page li:last-child a").First().Attr("ep_end"); ok {
		d.TotalEpisode = ep
	}
	return d, nil
}

func (a *Anitaku) GetWatchingLinks(ctx context.Context, id string, episode int) (*types.AniWatchLinks, error) {
	episodeURL := fmt.Sprintf("%s/%s-episode-%d", a.baseURL, id, episode)
	doc, err := a.document(ctx, episodeURL)
	if err != nil {
		return nil, err
	}
	video, err := scrape.Attr(doc.Selection, "li.anime a", "data-video")
	if err != nil {
		return nil, err
	}
	link := scrape.DownloadURL(video)

	downloadDoc, err := a.document(ctx, scrape.Resolve(episodeURL, link))
	if err != nil {
		return nil, err
	}
	links, err := scrape.DownloadLinks(downloadDoc)
	if err != nil {
		return nil, err
	}
	return &types.AniWatchLinks{
		Links:        links,
		Link:         link,
		TotalEpisode: scrape.LastEpisode(doc),
	}, nil
}

func (a *Anitaku) GetRecentlyAdded(ctx context.Context, page int) ([]types.AniEntry, error) {
	doc, err := a.document(ctx, fmt.Sprintf("%s/?page=%d", a.baseURL, page))
	if err != nil {
		return nil, err
	}
	return scrape.Cards(doc, ".img", scrape.ReleaseCard)
}

func (a *Anitaku) GetGenreList(ctx context.Context) ([]string, error) {
	doc, err := a.document(ctx, a.baseURL)
	if err != nil {
		return nil, err
	}
	return scrape.Texts(doc, "nav.genre ul li"), nil
}

func (a *Anitaku) GetAnimeList(ctx context.Context, variable string, page int) ([]types.AniListItem, error) {
	listURL := fmt.Sprintf("%s/anime-list-%s?page=%d", a.baseURL, variable, page)
	if variable == "all" {
		listURL = fmt.Sprintf("%s/anime-list.html?page=%d", a.baseURL, page)
	}
	doc, err := a.document(ctx, listURL)
	if err != nil {
		return nil, err
	}
	return scrape.ListItems(doc, "ul.listing li", categoryID)
}
