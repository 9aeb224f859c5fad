package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ani/ani-scrape/fetcher"
	"github.com/ani/ani-scrape/httpx"
)

// Resolver returns the fetcher for a site name taken from the url.
type Resolver func(site string) (fetcher.Fetcher, error)

// NewResolver builds fetchers on demand. They are stateless, so building one
// per request costs nothing; baseURL may return "" for the site default.
func NewResolver(g httpx.Getter, baseURL func(site string) string) Resolver {
	return func(site string) (fetcher.Fetcher, error) {
		return fetcher.New(site, baseURL(site), g)
	}
}

type siteInfo struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
}

func InitiateRoutes(app *fiber.App, sites Resolver) {
	app.Get(sitesUrl, func(c *fiber.Ctx) error {
		names := fetcher.Sites()
		infos := make([]siteInfo, len(names))
		for i, name := range names {
			infos[i] = siteInfo{Name: name, BaseURL: fetcher.DefaultBaseURL(name)}
		}
		return c.JSON(infos)
	})

	app.Get(popularUrl, withFetcher(sites, func(c *fiber.Ctx, f fetcher.Fetcher) error {
		page, err := pageParam(c)
		if err != nil {
			return err
		}
		results, err := f.GetPopular(c.UserContext(), page)
		if err != nil {
			return err
		}
		return c.JSON(results)
	}))

	app.Get(detailsUrl, withFetcher(sites, func(c *fiber.Ctx, f fetcher.Fetcher) error {
		details, err := f.GetDetails(c.UserContext(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(details)
	}))

	app.Get(searchUrl, withFetcher(sites, func(c *fiber.Ctx, f fetcher.Fetcher) error {
		keyword := strings.TrimSpace(c.Query("keyword"))
		if keyword == "" {
			return fiber.NewError(fiber.StatusBadRequest, "keyword is required")
		}
		page, err := pageParam(c)
		if err != nil {
			return err
		}
		results, err := f.Search(c.UserContext(), keyword, page)
		if err != nil {
			return err
		}
		return c.JSON(results)
	}))

	app.Get(watchUrl, withFetcher(sites, func(c *fiber.Ctx, f fetcher.Fetcher) error {
		episode, err := strconv.Atoi(c.Params("episode"))
		if err != nil || episode < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid episode number")
		}
		links, err := f.GetWatchingLinks(c.UserContext(), c.Params("id"), episode)
		if err != nil {
			return err
		}
		return c.JSON(links)
	}))

	app.Get(genreUrl, withFetcher(sites, func(c *fiber.Ctx, f fetcher.Fetcher) error {
		page, err := pageParam(c)
		if err != nil {
			return err
		}
		results, err := f.GetGenre(c.UserContext(), c.Params("genre"), page)
		if err != nil {
			return err
		}
		return c.JSON(results)
	}))

	app.Get(recentUrl, withFetcher(sites, func(c *fiber.Ctx, f fetcher.Fetcher) error {
		page, err := pageParam(c)
		if err != nil {
			return err
		}
		results, err := f.GetRecentlyAdded(c.UserContext(), page)
		if err != nil {
			return err
		}
		return c.JSON(results)
	}))

	app.Get(genresUrl, withFetcher(sites, func(c *fiber.Ctx, f fetcher.Fetcher) error {
		genres, err := f.GetGenreList(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(genres)
	}))

	app.Get(animeListUrl, withFetcher(sites, func(c *fiber.Ctx, f fetcher.Fetcher) error {
		page, err := pageParam(c)
		if err != nil {
			return err
		}
		items, err := f.GetAnimeList(c.UserContext(), c.Params("variable"), page)
		if err != nil {
			return err
		}
		return c.JSON(items)
	}))
}

func withFetcher(sites Resolver, h func(c *fiber.Ctx, f fetcher.Fetcher) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := sites(c.Params("site"))
		if err != nil {
			return err
		}
		return h(c, f)
	}
}

// pageParam reads ?page=, defaulting to the first page.
func pageParam(c *fiber.Ctx) (int, error) {
	raw := c.Query("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid page number")
	}
	return page, nil
}
