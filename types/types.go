package types

// AudioType tells whether a listing is the subbed or dubbed release.
type AudioType string

const (
	AudioDub AudioType = "dub"
	AudioSub AudioType = "sub"
)

// AniEntry is one anime card on a listing page (popular, search, genre, recently added).
type AniEntry struct {
	Title string `json:"title"`
	// site local id, derived from the card's link
	Id            string     `json:"id"`
	Image         string     `json:"image"`
	EpisodeNumber *string    `json:"episode_number,omitempty"`
	AudioType     *AudioType `json:"audio_type,omitempty"`
}

// AniDetails is the info block of an anime page. Every field but Title and Image
// is left empty when the page doesn't carry it.
type AniDetails struct {
	Title        string `json:"title"`
	Image        string `json:"image"`
	Type         string `json:"type"`
	Summary      string `json:"summary"`
	Released     string `json:"released"`
	Status       string `json:"status"`
	Genres       string `json:"genres"` // comma joined
	TotalEpisode string `json:"total_episode"`
	OtherName    string `json:"other_name"`
}

type AniDownload struct {
	Src  string `json:"src"`
	Size string `json:"size"`
}

type AniWatchLinks struct {
	Links []AniDownload `json:"links"`
	// download page the links were scraped from
	Link         string `json:"link"`
	TotalEpisode string `json:"total_episode"`
}

type AniListItem struct {
	Title string `json:"title"`
	Id    string `json:"id"`
}
