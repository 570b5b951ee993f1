// Package player integrates with mpv: it probes for a running instance,
// speaks the JSON-IPC protocol to append items to its queue, and spawns
// fresh instances when no session is reachable.
//
// The control channel is a unix domain socket exposed by mpv via
// --input-ipc-server. One invocation of the handler opens at most one
// connection, uses it for a strictly sequential batch of request/reply
// exchanges, and closes it.
package player

import "errors"

// Error kinds surfaced by this package.
var (
	// ErrChannel indicates a control-channel transport failure. It is fatal
	// for the current enqueue attempt and is never retried.
	ErrChannel = errors.New("control channel failure")

	// ErrSpawn indicates the player process could not be started.
	ErrSpawn = errors.New("player spawn failed")
)

// Item is a single directly playable entry destined for the play queue.
type Item struct {
	URL      string
	Title    string
	AudioURL string
}
