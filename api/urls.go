package api

const (
	baseUrl = "/api"

	sitesUrl = baseUrl + "/sites"
	siteUrl  = baseUrl + "/:site"

	popularUrl   = siteUrl + "/popular"
	detailsUrl   = siteUrl + "/details/:id"
	searchUrl    = siteUrl + "/search"
	watchUrl     = siteUrl + "/watch/:id/:episode"
	genreUrl     = siteUrl + "/genre/:genre"
	recentUrl    = siteUrl + "/recent"
	genresUrl    = siteUrl + "/genres"
	animeListUrl = siteUrl + "/list/:variable"
)
