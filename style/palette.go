package style

import "github.com/gabreek/mpv-handler-queue/color"

// Semantic colors used by command output.
var (
	Text        = color.New("252")
	AccentColor = color.New("#ffb703")
	HiRed       = color.HiRed
)
