package scrape

import (
	"errors"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/ani/ani-scrape/types"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := Document(html)
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return doc
}

func TestSlice(t *testing.T) {
	cases := []struct {
		s          string
		start, end int
		want       string
	}{
		{"/category/naruto", 10, 16, "naruto"},
		{"short", 10, 5, ""},
		{"Type: TV Series\n    ", 6, -5, "TV Series"},
		{"abc", -2, 3, "bc"},
		{"abc", 0, -10, ""},
		{"abc", -10, 2, "ab"},
		{"ナルト疾風伝", 3, 6, "疾風伝"},
	}
	for _, c := range cases {
		if got := Slice(c.s, c.start, c.end); got != c.want {
			t.Errorf("Slice(%q, %d, %d) = %q, want %q", c.s, c.start, c.end, got, c.want)
		}
	}
	if got := SliceFrom("/category/one-piece", 10); got != "one-piece" {
		t.Errorf("SliceFrom = %q", got)
	}
	if got := SliceFrom("/x", 10); got != "" {
		t.Errorf("SliceFrom on short string = %q, want empty", got)
	}
}

func TestPathID(t *testing.T) {
	cases := map[string]string{
		"https://gogoanime.by/series/one-piece/": "one-piece",
		"https://gogoanime.by/series/one-piece":  "one-piece",
		"/series/naruto-shippuden/?ref=home":     "naruto-shippuden",
		"https://gogoanime.by/series/bleach///":  "bleach",
	}
	for href, want := range cases {
		if got := PathID(href); got != want {
			t.Errorf("PathID(%q) = %q, want %q", href, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("https://a.test/x/y", "//b.test/download?id=1"); got != "https://b.test/download?id=1" {
		t.Fatalf("protocol relative: %q", got)
	}
	if got := Resolve("https://a.test/x/y", "https://c.test/download?id=2"); got != "https://c.test/download?id=2" {
		t.Fatalf("absolute: %q", got)
	}
}

func TestSizeLabel(t *testing.T) {
	cases := map[string]string{
		"\nDownload video file (HDP - mp4)":   "High Speed",
		"\nDownload video file (360P - mp4)":  "360P",
		"\nDownload video file (1080P - mp4)": "1080P",
		"\nDownload video file HDP":           "High Speed",
		// label moved: the offset cuts into the text instead of failing
		"Download (720P - mp4)": "",
	}
	for text, want := range cases {
		if got := SizeLabel(text); got != want {
			t.Errorf("SizeLabel(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("https://embtaku.pro/streaming.php?id=MjI4NzU=&title=Naruto")
	if got != "https://embtaku.pro/download?id=MjI4NzU=&title=Naruto" {
		t.Fatalf("unexpected rewrite %q", got)
	}
	if got := DownloadURL("https://x.test/embed?id=1"); got != "https://x.test/embed?id=1" {
		t.Fatalf("links without streaming.php must pass through, got %q", got)
	}
}

func TestDownloadLinks(t *testing.T) {
	doc := mustDoc(t, `<div class="mirror_link">
<div class="dowload"><a href="https://cdn.test/360.mp4" download="">
Download video file (360P - mp4)</a></div>
<div class="dowload"><a href="https://cdn.test/hdp.mp4" download="">
Download video file (HDP - mp4)</a></div>
<div class="dowload"><a href="https://mirror.test/x" target="_blank">Mirror</a></div>
</div>`)

	links, err := DownloadLinks(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []types.AniDownload{
		{Src: "https://cdn.test/360.mp4", Size: "360P"},
		{Src: "https://cdn.test/hdp.mp4", Size: "High Speed"},
	}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %d: %+v", len(want), len(links), links)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link %d = %+v, want %+v", i, links[i], want[i])
		}
	}
}

func TestDownloadLinks_MissingHref(t *testing.T) {
	doc := mustDoc(t, `<a download="">Download video file (360P - mp4)</a>`)
	_, err := DownloadLinks(doc)
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExtractionError, got %v", err)
	}
	if ee.Attr != "href" {
		t.Fatalf("expected missing href, got %+v", ee)
	}
}

func TestLastEpisode(t *testing.T) {
	doc := mustDoc(t, `<ul id="episode_page"><li><a ep_start="0" ep_end="100">0-100</a></li><li><a ep_start="101" ep_end="220">101-220</a></li></ul>`)
	if got := LastEpisode(doc); got != "220" {
		t.Fatalf("LastEpisode = %q", got)
	}
	if got := LastEpisode(mustDoc(t, `<p>nothing</p>`)); got != "" {
		t.Fatalf("LastEpisode without pagination = %q", got)
	}
}

func TestCards(t *testing.T) {
	doc := mustDoc(t, `<ul>
<li><div class="img"><a href="/category/naruto" title="Naruto"><img src="n.png"></a></div></li>
<li><div class="img"><a href="/category/bleach" title="Bleach"><img src="b.png"></a></div></li>
</ul>`)
	parse := func(s *goquery.Selection) (types.AniEntry, error) { return Card(s, PrefixID(10)) }

	got, err := Cards(doc, ".img", parse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Id != "naruto" || got[1].Id != "bleach" || got[1].Image != "b.png" {
		t.Fatalf("unexpected cards %+v", got)
	}

	empty, err := Cards(mustDoc(t, `<p>no cards</p>`), ".img", parse)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected an empty non-nil slice, got %#v", empty)
	}
}

func TestCards_MissingTitle(t *testing.T) {
	doc := mustDoc(t, `<div class="img"><a href="/category/x"><img src="x.png"></a></div>`)
	_, err := Cards(doc, ".img", func(s *goquery.Selection) (types.AniEntry, error) { return Card(s, PrefixID(10)) })
	var ee *ExtractionError
	if !errors.As(err, &ee) || ee.Attr != "title" {
		t.Fatalf("expected missing title ExtractionError, got %v", err)
	}
}

func TestListItems(t *testing.T) {
	doc := mustDoc(t, `<ul class="listing"><li><a href="/category/a-z">A to Z</a></li><li><a href="/category/zoo">Zoo</a></li></ul>`)
	items, err := ListItems(doc, "ul.listing li", PrefixID(10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []types.AniListItem{{Title: "A to Z", Id: "a-z"}, {Title: "Zoo", Id: "zoo"}}
	if len(items) != 2 || items[0] != want[0] || items[1] != want[1] {
		t.Fatalf("unexpected items %+v", items)
	}
}
