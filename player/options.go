package player

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabreek/mpv-handler-queue/filesystem"
	"github.com/gabreek/mpv-handler-queue/log"
	"github.com/gabreek/mpv-handler-queue/protocol"
	"github.com/gabreek/mpv-handler-queue/where"
)

// mpv flag prefixes understood by the options builder.
const (
	prefixCookies  = "--ytdl-raw-options-append=cookies="
	prefixProfile  = "--profile="
	prefixFormats  = "--ytdl-raw-options-append=format-sort="
	prefixTitle    = "--title="
	prefixSubfile  = "--sub-file="
	prefixStartAt  = "--start="
	prefixYtdlPath = "--script-opts=ytdl_hook-ytdl_path="
)

// BuildArgs translates the decoded request into mpv command-line options for
// a fresh player instance. ytdlPath may be empty when the resolver binary is
// the default one on PATH.
func BuildArgs(req *protocol.Request, ytdlPath string) []string {
	var args []string

	if req.Cookies != "" {
		if opt, ok := cookiesOption(req.Cookies); ok {
			args = append(args, opt)
		}
	}
	if req.Profile != "" {
		args = append(args, profileOption(req.Profile))
	}
	if opt, ok := formatsOption(req.Quality, req.VCodec); ok {
		args = append(args, opt)
	}
	if title, ok := req.Title.Get(); ok {
		args = append(args, titleOption(title))
	}
	if sub, ok := req.Subfile.Get(); ok {
		args = append(args, subfileOption(sub))
	}
	if start, ok := req.StartAt.Get(); ok {
		args = append(args, startAtOption(start))
	}
	if ytdlPath != "" {
		args = append(args, ytdlPathOption(ytdlPath))
	}

	return args
}

// cookiesOption resolves a named cookie export under the config cookies
// directory. A missing file degrades to no option rather than an error.
func cookiesOption(name string) (string, bool) {
	path := filepath.Join(where.Cookies(), name)

	exists, err := filesystem.API().Exists(path)
	if err != nil || !exists {
		log.Warnf("cookies file not found: %s", path)
		return "", false
	}

	return prefixCookies + path, true
}

func profileOption(profile string) string {
	return prefixProfile + profile
}

// formatsOption combines quality and codec hints into a yt-dlp format-sort
// expression, e.g. "res:720,+vcodec:vp9".
func formatsOption(quality, codec string) (string, bool) {
	var fields []string

	if quality != "" {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, quality)
		fields = append(fields, "res:"+digits)
	}
	if codec != "" {
		fields = append(fields, "+vcodec:"+codec)
	}

	if len(fields) == 0 {
		return "", false
	}
	return prefixFormats + strings.Join(fields, ","), true
}

func titleOption(title string) string {
	return prefixTitle + title
}

func subfileOption(subfile string) string {
	return prefixSubfile + subfile
}

func startAtOption(seconds float64) string {
	return prefixStartAt + strconv.FormatFloat(seconds, 'f', -1, 64)
}

func ytdlPathOption(path string) string {
	return prefixYtdlPath + path
}
