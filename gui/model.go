package gui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ani/ani-scrape/download"
	"github.com/ani/ani-scrape/fetcher"
	"github.com/ani/ani-scrape/player"
	"github.com/ani/ani-scrape/types"
)

const (
	stageSearch = iota
	stageAnime
	stageEpisode
	stageLink
)

type AniModel struct {
	textInput textinput.Model
	animes    choiceList
	episodes  choiceList
	links     choiceList
	err       error
	stage     int
	fetcher   fetcher.Fetcher
	quality   string
	info      string

	ctx   context.Context
	anime types.AniEntry
	ep    int

	// swapped in tests
	play func(ctx context.Context, url, title string) error
}

// InitialModel starts at the search prompt. quality preselects the matching
// link once an episode is picked.
func InitialModel(ctx context.Context, f fetcher.Fetcher, quality string) AniModel {
	ti := textinput.New()
	ti.Placeholder = "Death note"
	ti.Focus()
	ti.Width = 50

	return AniModel{
		textInput: ti,
		animes:    animeList(),
		episodes:  episodeList(),
		links:     linkList(),
		fetcher:   f,
		quality:   quality,
		stage:     stageSearch,
		ctx:       ctx,
		play:      player.RunVideo,
	}
}

func (m AniModel) Init() tea.Cmd {
	return tea.Batch(m.animes.Init(), m.episodes.Init(), m.links.Init())
}

// list returns the choice list of stage, nil for the search prompt.
func (m *AniModel) list(stage int) *choiceList {
	switch stage {
	case stageAnime:
		return &m.animes
	case stageEpisode:
		return &m.episodes
	case stageLink:
		return &m.links
	}
	return nil
}

func (m *AniModel) current() *choiceList {
	return m.list(m.stage)
}

func (m AniModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyCtrlB:
			if m.stage > stageSearch {
				m.stage--
			}
			m.err = nil
			return m, nil

		case tea.KeyEnter:
			return m.enter()
		}

	case spinner.TickMsg:
		// every list keeps its own spinner going
		var c1, c2, c3 tea.Cmd
		m.animes, c1 = m.animes.Update(msg)
		m.episodes, c2 = m.episodes.Update(msg)
		m.links, c3 = m.links.Update(msg)
		return m, tea.Batch(c1, c2, c3)

	case choicesFetchedEvent:
		l := m.list(msg.stage)
		if l == nil || !l.apply(msg) {
			return m, nil
		}
		if msg.err != nil && msg.stage == m.stage {
			m.err = msg.err
			m.info = ""
		}
		return m, nil

	case ErrorEvent:
		m.err = msg.err
		m.info = ""
		return m, nil

	case PlayedEvent:
		m.info = "finished " + msg.title
		return m, nil
	}

	// only the active stage receives input
	if m.stage == stageSearch {
		m.textInput, _ = m.textInput.Update(msg)
		return m, nil
	}
	l := m.current()
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m AniModel) enter() (tea.Model, tea.Cmd) {
	m.err = nil
	ctx := m.ctx

	switch m.stage {
	case stageSearch:
		searchKey := strings.TrimSpace(m.textInput.Value())
		if searchKey == "" {
			return m, nil
		}
		m.stage = stageAnime
		f := m.fetcher
		var cmd tea.Cmd
		m.animes, cmd = m.animes.fetch(func() ([]interface{}, error) {
			results, err := f.Search(ctx, searchKey, 1)
			if err != nil {
				return nil, err
			}
			b := make([]interface{}, len(results))
			for i := range results {
				b[i] = results[i]
			}
			return b, nil
		}, searchKey)
		return m, cmd

	case stageAnime:
		selected, ok := m.animes.selected()
		if !ok {
			return m, nil
		}
		// anime is selected let's fetch it's episodes
		m.anime = selected.(types.AniEntry)
		m.stage = stageEpisode
		f, id := m.fetcher, m.anime.Id
		var cmd tea.Cmd
		m.episodes, cmd = m.episodes.fetch(func() ([]interface{}, error) {
			details, err := f.GetDetails(ctx, id)
			if err != nil {
				return nil, err
			}
			total, err := strconv.Atoi(strings.TrimSpace(details.TotalEpisode))
			if err != nil {
				return nil, fmt.Errorf("%s has no episode count", details.Title)
			}
			b := make([]interface{}, total)
			for i := range b {
				b[i] = episodeChoice(i + 1)
			}
			return b, nil
		}, m.anime.Title+" episodes")
		return m, cmd

	case stageEpisode:
		selected, ok := m.episodes.selected()
		if !ok {
			return m, nil
		}
		m.ep = int(selected.(episodeChoice))
		m.stage = stageLink
		f, id, ep, quality := m.fetcher, m.anime.Id, m.ep, m.quality
		var cmd tea.Cmd
		m.links, cmd = m.links.fetch(func() ([]interface{}, error) {
			watch, err := f.GetWatchingLinks(ctx, id, ep)
			if err != nil {
				return nil, err
			}
			return orderLinks(watch.Links, quality), nil
		}, fmt.Sprintf("%s episode %d", m.anime.Title, m.ep))
		return m, cmd

	case stageLink:
		selected, ok := m.links.selected()
		if !ok {
			return m, nil
		}
		link := selected.(types.AniDownload)
		title := fmt.Sprintf("%s - episode %v - %s", m.anime.Title, m.ep, link.Size)
		m.info = "playing " + title
		play := m.play
		return m, func() tea.Msg {
			if err := play(ctx, link.Src, title); err != nil {
				return newErrorEvent(err)
			}
			return PlayedEvent{title: title}
		}
	}
	return m, nil
}

// orderLinks puts the preferred quality first.
func orderLinks(links []types.AniDownload, quality string) []interface{} {
	b := make([]interface{}, 0, len(links))
	preferred, matched, err := download.PickLink(links, quality)
	if err == nil && matched {
		b = append(b, preferred)
	}
	for _, l := range links {
		if matched && l == preferred {
			matched = false
			continue
		}
		b = append(b, l)
	}
	return b
}

func renderANewLine(msg string, highlight bool) string {
	highlightText := lipgloss.NewStyle().TabWidth(-1).Foreground(lipgloss.Color("#2c70b0"))
	normalText := lipgloss.NewStyle().TabWidth(-1).Foreground(lipgloss.Color("#f5f3f2"))

	styledText := normalText.Render(msg)
	if highlight {
		styledText = highlightText.Render(msg)
	}

	// Align text if needed
	return lipgloss.NewStyle().Align(lipgloss.Left).Render(styledText)
}

var errorText = lipgloss.NewStyle().Foreground(lipgloss.Color("#d9534f"))

func (m AniModel) View() string {
	msg := ""

	msg += m.info
	msg += "\n"
	if m.err != nil {
		msg += errorText.Render("error: "+m.err.Error()) + "\n"
	}

	if m.stage == stageSearch {
		msg += renderANewLine("Search anime ", true)
		msg += m.textInput.View()
	} else {
		msg += m.current().View()
	}

	return msg
}
