package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/ani/ani-scrape/fetcher"
	"github.com/ani/ani-scrape/httpx"
	"github.com/ani/ani-scrape/types"
)

var ErrNoLinks = errors.New("episode has no download links")

type Downloader struct {
	Fetcher fetcher.Fetcher
	// preferred size label ("720P", "High Speed"); empty takes the first link
	Quality string
	Client  *http.Client
	// progress bar output, stderr when nil
	Progress io.Writer
}

func New(f fetcher.Fetcher, quality string) *Downloader {
	return &Downloader{
		Fetcher: f,
		Quality: quality,
		Client:  &http.Client{Transport: http.DefaultTransport},
	}
}

// PickLink returns the link whose size label matches quality, falling back
// to the first link when there is no match.
func PickLink(links []types.AniDownload, quality string) (types.AniDownload, bool, error) {
	if len(links) == 0 {
		return types.AniDownload{}, false, ErrNoLinks
	}
	q := strings.TrimSpace(quality)
	if q == "" {
		return links[0], true, nil
	}
	for _, l := range links {
		if strings.EqualFold(l.Size, q) {
			return l, true, nil
		}
	}
	return links[0], false, nil
}

// Resolve looks up the watch links of an episode and picks one.
func (d *Downloader) Resolve(ctx context.Context, id string, ep int) (types.AniDownload, *types.AniWatchLinks, error) {
	watch, err := d.Fetcher.GetWatchingLinks(ctx, id, ep)
	if err != nil {
		return types.AniDownload{}, nil, err
	}
	link, matched, err := PickLink(watch.Links, d.Quality)
	if err != nil {
		return types.AniDownload{}, nil, fmt.Errorf("%s episode %d: %w", id, ep, err)
	}
	if !matched {
		log.Printf("quality %q not offered for %s episode %d, using %s\n", d.Quality, id, ep, link.Size)
	}
	return link, watch, nil
}

func (d *Downloader) downloadEpisodeToDisk(ctx context.Context, link types.AniDownload, path string) error {
	log.Printf("downloading %s (%s) to %s\n", link.Src, link.Size, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link.Src, nil)
	if err != nil {
		return err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return &httpx.TransportError{URL: link.Src, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &httpx.TransportError{URL: link.Src, Err: &httpx.StatusError{URL: link.Src, StatusCode: resp.StatusCode, Status: resp.Status}}
	}

	// write next to the target and rename, so a failed download never looks finished
	part := path + ".part"
	out, err := os.Create(part)
	if err != nil {
		return err
	}

	w := d.Progress
	if w == nil {
		w = os.Stderr
	}
	bar := progressbar.NewOptions64(resp.ContentLength,
		progressbar.OptionSetDescription("Downloading "+filepath.Base(path)),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(50),
	)

	_, err = io.Copy(io.MultiWriter(out, bar), resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(part)
		return err
	}
	return os.Rename(part, path)
}

func fileName(id string, ep int) string {
	return fmt.Sprintf("%s-episode-%d.mp4", id, ep)
}

// DownloadEpisode saves one episode under dir and returns the file path.
func (d *Downloader) DownloadEpisode(ctx context.Context, id string, ep int, dir string) (string, error) {
	link, _, err := d.Resolve(ctx, id, ep)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fileName(id, ep))
	return path, d.downloadEpisodeToDisk(ctx, link, path)
}

// DownloadAllEpisodes saves episodes 1..total_episode of the details page.
func (d *Downloader) DownloadAllEpisodes(ctx context.Context, id string, dir string) ([]string, error) {
	details, err := d.Fetcher.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	total, err := strconv.Atoi(strings.TrimSpace(details.TotalEpisode))
	if err != nil {
		return nil, fmt.Errorf("%s: unknown episode count %q", id, details.TotalEpisode)
	}
	log.Printf("found %s, %d episodes\n", details.Title, total)

	var paths []string
	for ep := 1; ep <= total; ep++ {
		path, err := d.DownloadEpisode(ctx, id, ep, dir)
		if err != nil {
			return paths, fmt.Errorf("episode %d: %w", ep, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
