package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/ani/ani-scrape/fetcher"
	"github.com/ani/ani-scrape/types"
)

// printer writes results either as indented json or as plain lines.
type printer struct {
	w    io.Writer
	json bool
}

func (p printer) encode(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, string(b))
	return err
}

var (
	heading = color.New(color.Bold, color.FgGreen)
	dim     = color.New(color.Faint)
)

func (p printer) entries(entries []types.AniEntry) error {
	if p.json {
		return p.encode(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(p.w, "no results")
		return nil
	}
	for i, e := range entries {
		line := fmt.Sprintf("%2d. %s", i+1, e.Title)
		if e.EpisodeNumber != nil {
			line += " - episode " + *e.EpisodeNumber
		}
		if e.AudioType != nil {
			line += " [" + string(*e.AudioType) + "]"
		}
		fmt.Fprintf(p.w, "%s %s\n", line, dim.Sprintf("(%s)", e.Id))
	}
	return nil
}

func (p printer) details(d *types.AniDetails) error {
	if p.json {
		return p.encode(d)
	}
	heading.Fprintln(p.w, d.Title)
	for _, f := range []struct{ label, value string }{
		{"other names", d.OtherName},
		{"type", d.Type},
		{"status", d.Status},
		{"released", d.Released},
		{"genres", d.Genres},
		{"episodes", d.TotalEpisode},
		{"image", d.Image},
	} {
		if f.value != "" {
			fmt.Fprintf(p.w, "%-12s %s\n", f.label+":", f.value)
		}
	}
	if d.Summary != "" {
		fmt.Fprintf(p.w, "\n%s\n", d.Summary)
	}
	return nil
}

func (p printer) watchLinks(w *types.AniWatchLinks) error {
	if p.json {
		return p.encode(w)
	}
	heading.Fprintln(p.w, "download page: "+w.Link)
	if w.TotalEpisode != "" {
		fmt.Fprintf(p.w, "episodes: %s\n", w.TotalEpisode)
	}
	for _, l := range w.Links {
		fmt.Fprintf(p.w, "%-12s %s\n", l.Size, l.Src)
	}
	return nil
}

func (p printer) listItems(items []types.AniListItem) error {
	if p.json {
		return p.encode(items)
	}
	for _, it := range items {
		fmt.Fprintf(p.w, "%s %s\n", it.Title, dim.Sprintf("(%s)", it.Id))
	}
	return nil
}

func (p printer) lines(lines []string) error {
	if p.json {
		return p.encode(lines)
	}
	for _, l := range lines {
		fmt.Fprintln(p.w, l)
	}
	return nil
}

type siteLine struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	Default bool   `json:"default"`
}

func (p printer) sites(names []string) error {
	sites := make([]siteLine, len(names))
	for i, n := range names {
		sites[i] = siteLine{Name: n, BaseURL: fetcher.DefaultBaseURL(n), Default: n == fetcher.DefaultFetcher}
	}
	if p.json {
		return p.encode(sites)
	}
	for _, s := range sites {
		mark := " "
		if s.Default {
			mark = "*"
		}
		fmt.Fprintf(p.w, "%s %-12s %s\n", mark, s.Name, dim.Sprint(s.BaseURL))
	}
	return nil
}
