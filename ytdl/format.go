package ytdl

import (
	"strings"

	"github.com/gabreek/mpv-handler-queue/constant"
	"github.com/gabreek/mpv-handler-queue/filesystem"
	"github.com/gabreek/mpv-handler-queue/key"
	"github.com/gabreek/mpv-handler-queue/log"
	"github.com/gabreek/mpv-handler-queue/where"
	"github.com/spf13/viper"
)

// DefaultFormat resolves the yt-dlp format expression to use, in priority
// order: explicit config value, ytdl-format from the user's mpv.conf, then
// the built-in default. Keeping parity with mpv.conf means pre-resolved
// queue entries get the same format a fresh mpv instance would pick itself.
func DefaultFormat() string {
	if format := viper.GetString(key.YtdlFormat); format != "" {
		return format
	}

	if format, ok := formatFromMpvConf(); ok {
		return format
	}

	return constant.DefaultYtdlFormat
}

// formatFromMpvConf sniffs the ytdl-format option from the user's mpv.conf.
func formatFromMpvConf() (string, bool) {
	path := where.MpvConfig()
	if path == "" {
		return "", false
	}

	content, err := filesystem.API().ReadFile(path)
	if err != nil {
		return "", false
	}

	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		k, v, found := strings.Cut(line, "=")
		if found && strings.TrimSpace(k) == "ytdl-format" {
			format := strings.TrimSpace(v)
			log.Debugf("found ytdl-format in mpv.conf: %s", format)
			return format, true
		}
	}

	return "", false
}
