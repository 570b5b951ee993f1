// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Player Integration - these keys locate the external mpv binary and its control channel.
const (
	PlayerPath   = "player.path"
	PlayerSocket = "player.socket"
	PlayerProxy  = "player.proxy"
)

// Media Resolution - these keys configure the external yt-dlp invocation.
const (
	YtdlPath    = "ytdl.path"
	YtdlFormat  = "ytdl.format"
	YtdlTimeout = "ytdl.timeout"
)

// Playlist Dialog - these keys configure the optional numeric-choice dialog tool.
const (
	DialogPath    = "dialog.path"
	DialogTimeout = "dialog.timeout"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern terminal presentation.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
