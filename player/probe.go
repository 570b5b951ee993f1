package player

import (
	"errors"

	"github.com/gabreek/mpv-handler-queue/log"
)

// Probe reports whether a live mpv session is reachable at socketPath.
//
// Reachability is behavioral: the probe completes a full property-query
// round-trip. A missing socket, a stale socket file with no listener, and a
// listener that accepts but never answers all count as "no session". The
// orchestrator skips process launch on a positive result, so a false
// positive here would swallow the user's playback request entirely.
func Probe(socketPath string) bool {
	conn, err := Dial(socketPath)
	if err != nil {
		log.Debugf("probe: %s", err)
		return false
	}
	defer conn.Close()

	if _, err := conn.GetProperty("pid"); err != nil {
		// A rejected query still proves a live mpv on the other end.
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			return true
		}
		log.Debugf("probe: %s", err)
		return false
	}

	return true
}
