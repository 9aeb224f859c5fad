package gogoanimeby

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ani/ani-scrape/httpx"
	"github.com/ani/ani-scrape/scrape"
	"github.com/ani/ani-scrape/types"
)

const DefaultBaseURL = "https://gogoanime.by"

// genre and anime-list pages still use the old "/category/<id>" links
var categoryID = scrape.PrefixID(10)

// GogoanimeBy scrapes the wordpress flavoured mirror: series pages live
// under /series/<id>/ and listings are <article> cards.
type GogoanimeBy struct {
	baseURL string
	g       httpx.Getter
}

func New(baseURL string, g httpx.Getter) *GogoanimeBy {
	return &GogoanimeBy{baseURL: baseURL, g: g}
}

func (s *GogoanimeBy) Name() string { return "gogoanimeby" }

func (s *GogoanimeBy) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	html, err := s.g.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return scrape.Document(html)
}

func article(a *goquery.Selection) (types.AniEntry, error) {
	return scrape.Card(a, scrape.PathID)
}

func (s *GogoanimeBy) GetPopular(ctx context.Context, page int) ([]types.AniEntry, error) {
	doc, err := s.document(ctx, fmt.Sprintf("%s/series/?page=%d&order=popular", s.baseURL, page))
	if err != nil {
		return nil, err
	}
	return scrape.Cards(doc, "article", article)
}

func (s *GogoanimeBy) Search(ctx context.Context, keyword string, page int) ([]types.AniEntry, error) {
	doc, err := s.document(ctx, fmt.Sprintf("%s/page/%d/?s=%s", s.baseURL, page, url.QueryEscape(keyword)))
	if err != nil {
		return nil, err
	}
	return scrape.Cards(doc, ".listupd article", article)
}

func (s *GogoanimeBy) seriesURL(id string) string {
	return fmt.Sprintf("%s/series/%s/", s.baseURL, id)
}

func (s *GogoanimeBy) GetDetails(ctx context.Context, id string) (*types.AniDetails, error) {
	doc, err := s.document(ctx, s.seriesURL(id))
	if err != nil {
		return nil, err
	}
	return parseDetails(doc)
}

// .ninfo spans are positional: 0 other name, 1 status, 3 released, 5 type
const (
	infoOtherName = 0
	infoStatus    = 1
	infoReleased  = 3
	infoType      = 5
)

func parseDetails(doc *goquery.Document) (*types.AniDetails, error) {
	title, err := scrape.First(doc.Selection, ".entry-title")
	if err != nil {
		return nil, err
	}
	image, err := scrape.Attr(doc.Selection, ".ts-post-image", "src")
	if err != nil {
		return nil, err
	}

	spans := doc.Find(".ninfo span")
	span := func(i int) string {
		if i >= spans.Length() {
			return ""
		}
		return strings.TrimSpace(spans.Eq(i).Text())
	}
	// "Status: Ongoing" -> " Ongoing"
	value := func(i int) string {
		parts := strings.Split(span(i), ":")
		if len(parts) < 2 {
			return ""
		}
		return parts[1]
	}

	var genres []string
	doc.Find(".genxed a").Each(func(i int, a *goquery.Selection) {
		genres = append(genres, strings.TrimSpace(a.Text()))
	})

	return &types.AniDetails{
		Title:        strings.TrimSpace(title.Text()),
		Image:        image,
		Type:         value(infoType),
		Summary:      strings.TrimSpace(doc.Find(".ninfo p").First().Text()),
		Released:     value(infoReleased),
		Status:       value(infoStatus),
		Genres:       strings.Join(genres, ","),
		TotalEpisode: strconv.Itoa(doc.Find(".episodes-container a").Length()),
		OtherName:    span(infoOtherName),
	}, nil
}

// GetWatchingLinks needs one more hop than the other sites: episode pages
// have no predictable url, so the series page is searched for the episode link first.
func (s *GogoanimeBy) GetWatchingLinks(ctx context.Context, id string, episode int) (*types.AniWatchLinks, error) {
	seriesURL := s.seriesURL(id)
	series, err := s.document(ctx, seriesURL)
	if err != nil {
		return nil, err
	}
	episodeHref, err := findEpisode(series, episode)
	if err != nil {
		return nil, err
	}

	episodeURL := scrape.Resolve(seriesURL, episodeHref)
	doc, err := s.document(ctx, episodeURL)
	if err != nil {
		return nil, err
	}
	video, err := scrape.Attr(doc.Selection, "div.episode-item a", "data-video")
	if err != nil {
		return nil, err
	}
	link := scrape.DownloadURL(video)

	downloadDoc, err := s.document(ctx, scrape.Resolve(episodeURL, link))
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

// findEpisode picks the episode link whose caption ends in the episode number ("Episode 12").
func findEpisode(series *goquery.Document, episode int) (string, error) {
	const selector = "div.episode-item a"
	var (
		href  string
		found bool
	)
	series.Find(selector).EachWithBreak(func(i int, a *goquery.Selection) bool {
		words := strings.Split(strings.TrimSpace(a.Text()), " ")
		n, err := strconv.Atoi(words[len(words)-1])
		if err != nil || n != episode {
			return true
		}
		href, found = a.Attr("href")
		return false
	})
	if !found {
		return "", &scrape.ExtractionError{Selector: fmt.Sprintf("%s[episode %d]", selector, episode), Attr: "href"}
	}
	return href, nil
}

func (s *GogoanimeBy) GetGenre(ctx context.Context, genre string, page int) ([]types.AniEntry, error) {
	doc, err := s.document(ctx, fmt.Sprintf("%s/genre/%s?page=%d", s.baseURL, url.PathEscape(genre), page))
	if err != nil {
		return nil, err
	}
	return scrape.Cards(doc, ".img", func(card *goquery.Selection) (types.AniEntry, error) {
		return scrape.Card(card, categoryID)
	})
}

func (s *GogoanimeBy) GetRecentlyAdded(ctx context.Context, page int) ([]types.AniEntry, error) {
	doc, err := s.document(ctx, fmt.Sprintf("%s/?page=%d", s.baseURL, page))
	if err != nil {
		return nil, err
	}
	return scrape.Cards(doc, ".img", scrape.ReleaseCard)
}

func (s *GogoanimeBy) GetGenreList(ctx context.Context) ([]string, error) {
	doc, err := s.document(ctx, s.baseURL)
	if err != nil {
		return nil, err
	}
	return scrape.Texts(doc, "nav.genre ul li"), nil
}

func (s *GogoanimeBy) GetAnimeList(ctx context.Context, variable string, page int) ([]types.AniListItem, error) {
	listURL := fmt.Sprintf("%s/anime-list-%s?page=%d", s.baseURL, variable, page)
	if variable == "all" {
		listURL = fmt.Sprintf("%s/anime-list.html?page=%d", s.baseURL, page)
	}
	doc, err := s.document(ctx, listURL)
	if err != nil {
		return nil, err
	}
	return scrape.ListItems(doc, "ul.listing li", categoryID)
}
