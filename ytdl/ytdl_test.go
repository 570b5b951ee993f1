package ytdl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gabreek/mpv-handler-queue/constant"
	"github.com/gabreek/mpv-handler-queue/filesystem"
	"github.com/gabreek/mpv-handler-queue/key"
	"github.com/gabreek/mpv-handler-queue/where"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

// fakeRunner replays scripted output instead of spawning yt-dlp.
type fakeRunner struct {
	output []byte
	err    error
	calls  [][]string
}

func (f *fakeRunner) Run(_ context.Context, args ...string) ([]byte, error) {
	f.calls = append(f.calls, args)
	return f.output, f.err
}

func newResolver(r Runner) *Resolver {
	return &Resolver{Runner: r, Format: constant.DefaultYtdlFormat, Timeout: time.Second}
}

func TestInspect(t *testing.T) {
	ctx := context.Background()

	Convey("Inspect", t, func() {
		Convey("A target without a playlist marker is Single with no subprocess cost", func() {
			runner := &fakeRunner{}
			target, err := newResolver(runner).Inspect(ctx, "https://example.com/watch?v=abc")
			So(err, ShouldBeNil)
			So(target.Kind, ShouldEqual, Single)
			So(target.Entries, ShouldHaveLength, 1)
			So(target.Entries[0].URL, ShouldEqual, "https://example.com/watch?v=abc")
			So(runner.calls, ShouldBeEmpty)
		})

		Convey("A marked target is flat-listed into ordered entries", func() {
			runner := &fakeRunner{output: []byte(strings.Join([]string{
				`{"title":"First","url":"https://example.com/1"}`,
				`{"title":"Second","url":"https://example.com/2"}`,
				`{"title":"Third","url":"https://example.com/3"}`,
			}, "\n"))}

			target, err := newResolver(runner).Inspect(ctx, "https://example.com/watch?v=abc&list=PL1")
			So(err, ShouldBeNil)
			So(target.Kind, ShouldEqual, Collection)
			So(target.Entries, ShouldResemble, []Entry{
				{Title: "First", URL: "https://example.com/1"},
				{Title: "Second", URL: "https://example.com/2"},
				{Title: "Third", URL: "https://example.com/3"},
			})
			So(runner.calls, ShouldHaveLength, 1)
			So(runner.calls[0][0], ShouldEqual, "--flat-playlist")
		})

		Convey("Unavailable entries are skipped", func() {
			runner := &fakeRunner{output: []byte(strings.Join([]string{
				`{"title":"First","url":"https://example.com/1"}`,
				`{"title":"[Deleted video]","url":"https://example.com/2"}`,
				`{"title":"[Private video]","url":"https://example.com/3"}`,
				`{"title":"Fourth","url":"https://example.com/4"}`,
			}, "\n"))}

			target, err := newResolver(runner).Inspect(ctx, "https://example.com/watch?list=PL1")
			So(err, ShouldBeNil)
			So(target.Entries, ShouldHaveLength, 2)
			So(target.Entries[1].Title, ShouldEqual, "Fourth")
		})

		Convey("A single surviving entry degrades to Single", func() {
			runner := &fakeRunner{output: []byte(`{"title":"Only","url":"https://example.com/1"}`)}
			target, err := newResolver(runner).Inspect(ctx, "https://example.com/watch?list=PL1")
			So(err, ShouldBeNil)
			So(target.Kind, ShouldEqual, Single)
		})

		Convey("Ambiguous output fails closed as NoPlayableMedia", func() {
			runner := &fakeRunner{output: []byte("WARNING: something\nnot json at all")}
			_, err := newResolver(runner).Inspect(ctx, "https://example.com/watch?list=PL1")
			So(errors.Is(err, ErrNoPlayableMedia), ShouldBeTrue)
		})

		Convey("Tool failure kinds pass through", func() {
			for _, kind := range []error{ErrUnavailable, ErrTimeout} {
				runner := &fakeRunner{err: fmt.Errorf("%w: yt-dlp", kind)}
				_, err := newResolver(runner).Inspect(ctx, "https://example.com/watch?list=PL1")
				So(errors.Is(err, kind), ShouldBeTrue)
			}
		})

		Convey("Other tool failures map to NoPlayableMedia", func() {
			runner := &fakeRunner{err: errors.New("exit status 1: ERROR: unsupported URL")}
			_, err := newResolver(runner).Inspect(ctx, "https://example.com/watch?list=PL1")
			So(errors.Is(err, ErrNoPlayableMedia), ShouldBeTrue)
		})
	})
}

func TestResolveEntry(t *testing.T) {
	ctx := context.Background()
	entry := Entry{URL: "https://example.com/watch?v=abc"}

	Convey("ResolveEntry", t, func() {
		Convey("Parses title, video URL and audio URL", func() {
			runner := &fakeRunner{output: []byte("A Title\nhttps://cdn.example.com/v.m3u8\nhttps://cdn.example.com/a.m4a\n")}

			item, err := newResolver(runner).ResolveEntry(ctx, entry)
			So(err, ShouldBeNil)
			So(item.Title, ShouldEqual, "A Title")
			So(item.URL, ShouldEqual, "https://cdn.example.com/v.m3u8")
			So(item.AudioURL, ShouldEqual, "https://cdn.example.com/a.m4a")
		})

		Convey("Audio URL is optional", func() {
			runner := &fakeRunner{output: []byte("A Title\nhttps://cdn.example.com/muxed.mp4\n")}

			item, err := newResolver(runner).ResolveEntry(ctx, entry)
			So(err, ShouldBeNil)
			So(item.AudioURL, ShouldBeEmpty)
		})

		Convey("A flat-playlist title wins over the resolved one", func() {
			runner := &fakeRunner{output: []byte("Resolved Title\nhttps://cdn.example.com/v.m3u8\n")}

			item, err := newResolver(runner).ResolveEntry(ctx, Entry{URL: entry.URL, Title: "Listed Title"})
			So(err, ShouldBeNil)
			So(item.Title, ShouldEqual, "Listed Title")
		})

		Convey("Insufficient output fails closed as NoPlayableMedia", func() {
			runner := &fakeRunner{output: []byte("just one line\n")}
			_, err := newResolver(runner).ResolveEntry(ctx, entry)
			So(errors.Is(err, ErrNoPlayableMedia), ShouldBeTrue)
		})

		Convey("The configured format is passed through", func() {
			runner := &fakeRunner{output: []byte("T\nhttps://cdn.example.com/v\n")}
			r := newResolver(runner)
			r.Format = "custom-format"

			_, err := r.ResolveEntry(ctx, entry)
			So(err, ShouldBeNil)
			So(runner.calls[0][0], ShouldEqual, "-f")
			So(runner.calls[0][1], ShouldEqual, "custom-format")
		})
	})
}

func TestDefaultFormat(t *testing.T) {
	Convey("DefaultFormat", t, func() {
		viper.Set(key.YtdlFormat, "")

		Convey("Falls back to the built-in default", func() {
			So(DefaultFormat(), ShouldEqual, constant.DefaultYtdlFormat)
		})

		Convey("Prefers an explicit config value", func() {
			viper.Set(key.YtdlFormat, "bestaudio")
			defer viper.Set(key.YtdlFormat, "")
			So(DefaultFormat(), ShouldEqual, "bestaudio")
		})

		Convey("Sniffs ytdl-format from mpv.conf", func() {
			path := where.MpvConfig()
			So(path, ShouldNotBeEmpty)
			content := "# comment\nhwdec=auto\nytdl-format = bestvideo+bestaudio\n"
			So(filesystem.API().WriteFile(path, []byte(content), 0o644), ShouldBeNil)
			defer func() { _ = filesystem.API().Remove(path) }()

			So(DefaultFormat(), ShouldEqual, "bestvideo+bestaudio")
		})
	})
}
