package gui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ani/ani-scrape/types"
)

// rows visible at once
const listHeight = 20

// episode choices only carry the number
type episodeChoice int

// choiceList is one pickable, filterable list of a browse stage. Each fetch
// bumps seq so results of an abandoned fetch can be told apart.
type choiceList struct {
	stage  int
	seq    int
	title  string
	format func(interface{}) string

	items   []interface{}
	cursor  int
	top     int
	loading bool
	shown   bool

	spinner  spinner.Model
	filter   textinput.Model
	viewport viewport.Model
}

func newChoiceList(stage, width int, format func(interface{}) string) choiceList {
	sp := spinner.New()
	sp.Spinner = spinner.Moon
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	filter := textinput.New()
	filter.Placeholder = "Filter results"
	filter.CharLimit = 156
	filter.Width = 20
	filter.Focus()

	return choiceList{
		stage:    stage,
		format:   format,
		spinner:  sp,
		filter:   filter,
		viewport: viewport.New(width, listHeight),
	}
}

func animeList() choiceList {
	return newChoiceList(stageAnime, 120, func(i interface{}) string {
		anime := i.(types.AniEntry)
		if anime.EpisodeNumber != nil {
			return fmt.Sprintf("%s - episode %s", anime.Title, *anime.EpisodeNumber)
		}
		return anime.Title
	})
}

func episodeList() choiceList {
	return newChoiceList(stageEpisode, 30, func(i interface{}) string {
		return fmt.Sprintf("episode #%d", int(i.(episodeChoice)))
	})
}

func linkList() choiceList {
	return newChoiceList(stageLink, 120, func(i interface{}) string {
		return i.(types.AniDownload).Size
	})
}

// visible returns the items matching the filter, in order.
func (l choiceList) visible() []interface{} {
	key := strings.ToLower(l.filter.Value())
	if key == "" {
		return l.items
	}
	var out []interface{}
	for _, it := range l.items {
		if strings.Contains(strings.ToLower(l.format(it)), key) {
			out = append(out, it)
		}
	}
	return out
}

func (l choiceList) selected() (interface{}, bool) {
	items := l.visible()
	if l.cursor < 0 || l.cursor >= len(items) {
		return nil, false
	}
	return items[l.cursor], true
}

// fetch clears the list, starts the spinner and returns the command running
// search. Its result comes back as a choicesFetchedEvent tagged with the new seq.
func (l choiceList) fetch(search func() ([]interface{}, error), title string) (choiceList, tea.Cmd) {
	l.seq++
	l.title = title
	l.items = nil
	l.loading, l.shown = true, false
	l.filter.Reset()
	l.moveTo(0)

	stage, seq := l.stage, l.seq
	return l, func() tea.Msg {
		results, err := search()
		return choicesFetchedEvent{stage: stage, seq: seq, results: results, err: err}
	}
}

// apply takes the outcome of a fetch. It reports false for a result of an
// older fetch, which is dropped.
func (l *choiceList) apply(ev choicesFetchedEvent) bool {
	if ev.seq != l.seq {
		return false
	}
	l.loading = false
	if ev.err == nil {
		l.items = ev.results
		l.shown = true
		l.render()
	}
	return true
}

// moveTo puts the cursor on row i, scrolling so it stays in view.
func (l *choiceList) moveTo(i int) {
	if n := len(l.visible()); i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	l.cursor = i
	switch {
	case i < l.top:
		l.top = i
	case i >= l.top+listHeight:
		l.top = i - listHeight + 1
	}
	l.render()
}

func (l *choiceList) render() {
	var b strings.Builder
	items := l.visible()
	for i, it := range items {
		mark := " "
		if i == l.cursor {
			mark = ">"
		}
		fmt.Fprintf(&b, "%s %d- %s\n", mark, i+1, l.format(it))
	}
	if len(items) == 0 {
		b.WriteString("No matched results!!\n")
	}
	l.viewport.SetContent(b.String())
	l.viewport.SetYOffset(l.top)
}

func (l choiceList) Init() tea.Cmd {
	return l.spinner.Tick
}

func (l choiceList) Update(msg tea.Msg) (choiceList, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.viewport.Width = msg.Width
	case spinner.TickMsg:
		var cmd tea.Cmd
		l.spinner, cmd = l.spinner.Update(msg)
		return l, cmd
	case tea.KeyMsg:
		if !l.shown {
			return l, nil
		}
		switch msg.Type {
		case tea.KeyDown:
			l.moveTo(l.cursor + 1)
		case tea.KeyUp:
			l.moveTo(l.cursor - 1)
		case tea.KeyEnter:
		default:
			// typing narrows the list and starts over at the top
			l.filter, _ = l.filter.Update(msg)
			l.top = 0
			l.moveTo(0)
		}
	}
	return l, nil
}

func (l choiceList) View() string {
	var b strings.Builder
	if l.loading {
		b.WriteString(l.spinner.View() + "\n")
	}
	if l.shown {
		fmt.Fprintf(&b, "%s\nShowing %d results for %s\n\n", l.filter.View(), len(l.items), l.title)
		b.WriteString(l.viewport.View())
	}
	return b.String()
}
