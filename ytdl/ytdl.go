// Package ytdl drives the external yt-dlp tool to classify a playback target
// as a single item or a playlist and to resolve entries into directly
// playable URLs.
//
// Resolution is staged: Inspect performs a cheap metadata-only pass, and the
// heavier per-entry ResolveEntry is only invoked for items that will
// actually be appended to a queue. Every invocation is attempted exactly
// once; retrying a subprocess risks duplicate side effects with no
// idempotence guarantee from the tool.
package ytdl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabreek/mpv-handler-queue/key"
	"github.com/gabreek/mpv-handler-queue/log"
	"github.com/gabreek/mpv-handler-queue/player"
	"github.com/gabreek/mpv-handler-queue/util"
	"github.com/spf13/viper"
)

// Resolution failure kinds. All are fatal for the current invocation.
var (
	ErrUnavailable     = errors.New("resolver tool not found")
	ErrNoPlayableMedia = errors.New("no playable media")
	ErrTimeout         = errors.New("resolver timed out")
)

// Kind classifies a playback target.
type Kind int

const (
	Single Kind = iota
	Collection
)

// Entry is one playlist member before per-entry resolution.
type Entry struct {
	Title string
	URL   string
}

// MediaTarget is the classified form of a playback target. Entries preserve
// the tool's reported order; that order is the queue order.
type MediaTarget struct {
	Kind    Kind
	Entries []Entry
}

// Runner abstracts the resolver subprocess so the package is testable
// without spawning yt-dlp.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// Resolver invokes the resolution tool with a bounded execution time.
type Resolver struct {
	Runner  Runner
	Format  string
	Timeout time.Duration
}

// New assembles a Resolver from global configuration.
func New() *Resolver {
	binary := util.ResolveBinary(viper.GetString(key.YtdlPath))

	return &Resolver{
		Runner:  &ExecRunner{Binary: binary, Proxy: viper.GetString(key.PlayerProxy)},
		Format:  DefaultFormat(),
		Timeout: time.Duration(viper.GetInt(key.YtdlTimeout)) * time.Second,
	}
}

// Unavailable playlist entry titles reported by yt-dlp; such entries are
// skipped rather than enqueued.
var unavailableTitles = []string{"[Deleted video]", "[Private video]"}

// Inspect classifies the target. Targets without an explicit playlist marker
// are single items and cost no subprocess invocation; marked targets are
// flat-listed to obtain the ordered entry URLs without resolving each one.
func (r *Resolver) Inspect(ctx context.Context, target string) (MediaTarget, error) {
	if !strings.Contains(target, "&list=") && !strings.Contains(target, "?list=") {
		return MediaTarget{Kind: Single, Entries: []Entry{{URL: target}}}, nil
	}

	out, err := r.run(ctx, "--flat-playlist", "--dump-json", target)
	if err != nil {
		return MediaTarget{}, err
	}

	var entries []Entry
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var entry struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil || entry.URL == "" {
			// Fail closed on ambiguous tool output: anything that is not
			// a well-formed flat-playlist record is not an entry.
			continue
		}

		skip := false
		for _, title := range unavailableTitles {
			if entry.Title == title {
				log.Warnf("skipping unavailable video: %s", entry.URL)
				skip = true
				break
			}
		}
		if !skip {
			entries = append(entries, Entry{Title: entry.Title, URL: entry.URL})
		}
	}

	switch len(entries) {
	case 0:
		return MediaTarget{}, fmt.Errorf("%w: %s", ErrNoPlayableMedia, target)
	case 1:
		return MediaTarget{Kind: Single, Entries: entries}, nil
	default:
		return MediaTarget{Kind: Collection, Entries: entries}, nil
	}
}

// ResolveEntry performs the heavy per-entry resolution to a direct media
// URL. The tool reports the title on the first line, the video URL on the
// second, and an optional separate audio URL on the third.
func (r *Resolver) ResolveEntry(ctx context.Context, entry Entry) (player.Item, error) {
	out, err := r.run(ctx, "-f", r.Format, "--get-url", "--check-formats", "--get-title", entry.URL)
	if err != nil {
		return player.Item{}, err
	}

	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 2 {
		return player.Item{}, fmt.Errorf("%w: insufficient resolver output for %s", ErrNoPlayableMedia, entry.URL)
	}

	item := player.Item{Title: lines[0], URL: lines[1]}
	if entry.Title != "" {
		// Flat-playlist titles win: they were shown to the user in the dialog.
		item.Title = entry.Title
	}
	if len(lines) >= 3 {
		item.AudioURL = lines[2]
	}

	return item, nil
}

// run executes the tool once under the configured deadline and maps the
// failure modes onto this package's error kinds.
func (r *Resolver) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	out, err := r.Runner.Run(ctx, args...)
	if err == nil {
		return out, nil
	}

	switch {
	case errors.Is(err, ErrUnavailable), errors.Is(err, ErrTimeout):
		return nil, err
	case ctx.Err() != nil:
		return nil, fmt.Errorf("%w: %s", ErrTimeout, err)
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoPlayableMedia, err)
	}
}
