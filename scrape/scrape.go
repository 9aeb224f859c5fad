// Package scrape holds the selector helpers shared by the site fetchers.
//
// Nothing in here knows about a particular site: fetchers pass in their own
// selectors and id rules. Helpers that slice text by fixed offsets do it the
// way the sites were first scraped, so a reworded label silently produces
// wrong text instead of an error.
package scrape

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ani/ani-scrape/types"
)

// ExtractionError means an element or attribute the page layout guarantees was not there.
type ExtractionError struct {
	Selector string
	Attr     string
}

func (e *ExtractionError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("extract: %q has no %s attribute", e.Selector, e.Attr)
	}
	return fmt.Sprintf("extract: %q not found", e.Selector)
}

func Document(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// First returns the first match of selector under s, or an ExtractionError.
func First(s *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := s.Find(selector).First()
	if found.Length() == 0 {
		return nil, &ExtractionError{Selector: selector}
	}
	return found, nil
}

// Attr reads attr from the first match of selector under s.
func Attr(s *goquery.Selection, selector, attr string) (string, error) {
	found, err := First(s, selector)
	if err != nil {
		return "", err
	}
	v, ok := found.Attr(attr)
	if !ok {
		return "", &ExtractionError{Selector: selector, Attr: attr}
	}
	return v, nil
}

// Slice is s[start:end] with python slice semantics: indices count runes,
// negative indices count from the end, out of range bounds are clamped.
func Slice(s string, start, end int) string {
	r := []rune(s)
	n := len(r)
	clamp := func(i int) int {
		if i < 0 {
			i += n
			if i < 0 {
				return 0
			}
		}
		if i > n {
			return n
		}
		return i
	}
	start, end = clamp(start), clamp(end)
	if start >= end {
		return ""
	}
	return string(r[start:end])
}

// SliceFrom is s[start:].
func SliceFrom(s string, start int) string {
	return Slice(s, start, len(s))
}

// PrefixID builds an id rule that drops the first n characters of a link,
// e.g. 10 for "/category/".
func PrefixID(n int) func(href string) string {
	return func(href string) string {
		return SliceFrom(href, n)
	}
}

// PathID takes the last non-empty path segment of a link.
func PathID(href string) string {
	p := href
	if u, err := url.Parse(href); err == nil {
		p = u.Path
	}
	parts := strings.Split(strings.TrimRight(p, "/"), "/")
	return parts[len(parts)-1]
}

// Resolve makes ref absolute against base. Refs that don't parse are returned as they are.
func Resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

// Card reads the title, link and cover of one listing card: title and link
// come from the card's first anchor, the cover from its first image.
func Card(card *goquery.Selection, id func(href string) string) (types.AniEntry, error) {
	title, err := Attr(card, "a", "title")
	if err != nil {
		return types.AniEntry{}, err
	}
	href, err := Attr(card, "a", "href")
	if err != nil {
		return types.AniEntry{}, err
	}
	image, err := Attr(card, "img", "src")
	if err != nil {
		return types.AniEntry{}, err
	}
	return types.AniEntry{Title: title, Id: id(href), Image: image}, nil
}

// Cards maps every match of selector through parse, in document order.
// No match is an empty result, not an error.
func Cards(doc *goquery.Document, selector string, parse func(*goquery.Selection) (types.AniEntry, error)) ([]types.AniEntry, error) {
	results := []types.AniEntry{}
	var err error
	doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		var e types.AniEntry
		e, err = parse(s)
		if err != nil {
			return false
		}
		results = append(results, e)
		return true
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Texts returns the text of every match of selector.
func Texts(doc *goquery.Document, selector string) []string {
	texts := []string{}
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		texts = append(texts, s.Text())
	})
	return texts
}

// ReleaseCard reads a "recently added" card. Its link points at the episode
// page ("/naruto-episode-12"), so the id is the link minus the episode
// suffix taken from the sibling "Episode 12" caption.
func ReleaseCard(card *goquery.Selection) (types.AniEntry, error) {
	e, err := Card(card, func(href string) string { return href })
	if err != nil {
		return types.AniEntry{}, err
	}
	caption := card.NextAllFiltered("p.episode").First()
	if caption.Length() == 0 {
		return types.AniEntry{}, &ExtractionError{Selector: "p.episode"}
	}

	episode := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(caption.Text()), " ", "-"))
	number := strings.ReplaceAll(episode, "episode-", "")
	e.Id = strings.ReplaceAll(SliceFrom(e.Id, 1), "-"+episode, "")
	e.EpisodeNumber = &number
	e.AudioType = audioBadge(card)
	return e, nil
}

func audioBadge(card *goquery.Selection) *types.AudioType {
	var t types.AudioType
	switch {
	case card.Find(".ic-DUB").Length() > 0:
		t = types.AudioDub
	case card.Find(".ic-SUB").Length() > 0:
		t = types.AudioSub
	default:
		return nil
	}
	return &t
}
