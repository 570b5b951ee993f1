// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// MpvHandler is the canonical application identifier used for filesystem paths and CLI branding.
	MpvHandler = "mpv-handler"

	// Version is the current application semantic version string.
	Version = "0.3.0"
)

// URI schemes handled by the application. Both decode to the same request;
// the debug variant keeps a console window attached on platforms that
// register a separate desktop entry for it, and raises log verbosity.
const (
	SchemePlain = "mpv"
	SchemeDebug = "mpv-debug"
)

// DefaultYtdlFormat is the format expression handed to yt-dlp when neither
// the config file nor mpv.conf specifies one.
const DefaultYtdlFormat = "bestvideo[height<=?1920][fps<=?30][vcodec^=avc]+bestaudio/best"
