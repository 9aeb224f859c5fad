package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ani/ani-scrape/types"
)

const (
	downloadSelector = `a[download=""]`
	// "Download" label and its indentation in front of the size
	sizeLabelOffset = 21
	highSpeedLabel  = "HDP"
)

// DownloadURL turns a player link into the matching download page link.
func DownloadURL(dataVideo string) string {
	return strings.ReplaceAll(dataVideo, "streaming.php", "download")
}

// SizeLabel extracts the quality label from a download anchor's text,
// e.g. "...(720P - mp4)" -> "720P". The HDP mirror is reported as "High Speed".
func SizeLabel(text string) string {
	size := SliceFrom(text, sizeLabelOffset)
	size = strings.ReplaceAll(size, "(", "")
	size = strings.ReplaceAll(size, ")", "")
	size = strings.ReplaceAll(size, " - mp4", "")
	if size == highSpeedLabel {
		return "High Speed"
	}
	return size
}

// DownloadLinks reads every download anchor of a download page.
func DownloadLinks(doc *goquery.Document) ([]types.AniDownload, error) {
	links := []types.AniDownload{}
	var err error
	doc.Find(downloadSelector).EachWithBreak(func(i int, a *goquery.Selection) bool {
		src, ok := a.Attr("href")
		if !ok {
			err = &ExtractionError{Selector: downloadSelector, Attr: "href"}
			return false
		}
		links = append(links, types.AniDownload{Src: src, Size: SizeLabel(a.Text())})
		return true
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// LastEpisode reads the episode range of the last pagination tab ("0-24" -> "24").
// Pages without pagination give "".
func LastEpisode(doc *goquery.Document) string {
	a := doc.Find("#episode_page li:last-child a").First()
	if a.Length() == 0 {
		return ""
	}
	parts := strings.Split(a.Text(), "-")
	return parts[len(parts)-1]
}

// ListItems reads a plain title/link listing.
func ListItems(doc *goquery.Document, selector string, id func(href string) string) ([]types.AniListItem, error) {
	items := []types.AniListItem{}
	var err error
	doc.Find(selector).EachWithBreak(func(i int, li *goquery.Selection) bool {
		a, ferr := First(li, "a")
		if ferr != nil {
			err = ferr
			return false
		}
		href, ok := a.Attr("href")
		if !ok {
			err = &ExtractionError{Selector: selector + " a", Attr: "href"}
			return false
		}
		items = append(items, types.AniListItem{Title: a.Text(), Id: id(href)})
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
