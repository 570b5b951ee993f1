// Package dialog asks the user how many playlist items to enqueue, via an
// external graphical dialog tool with a visible countdown.
//
// The selector is deliberately fail-open: a missing dialog binary, a hung
// dialog process, or an expired countdown all resolve to "enqueue
// everything" so queueing never silently does nothing and never blocks
// playback. The wait is the only wall-clock-gated step in the handler and
// is always bounded by an explicit deadline.
package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gabreek/mpv-handler-queue/key"
	"github.com/gabreek/mpv-handler-queue/log"
	"github.com/gabreek/mpv-handler-queue/util"
	"github.com/spf13/viper"
)

// Decision is the fully resolved outcome of a selection; Count 0 means all
// items. No partial or unknown state escapes the selector.
type Decision struct {
	Count int
}

// All reports whether the whole collection should be enqueued.
func (d Decision) All() bool {
	return d.Count == 0
}

// Zenity exit codes of interest.
const (
	codeOK      = 0
	codeTimeout = 5
)

// selection states, in transition order.
type state int

const (
	stateIdle state = iota
	stateDialogRequested
	stateAwaiting
	stateUnavailable
	stateResolved
)

// Runner abstracts the dialog subprocess. Prompt blocks until the user
// answers, the tool's own countdown fires, or ctx expires; spawnErr is only
// non-nil when the process could not be started at all.
type Runner interface {
	Prompt(ctx context.Context, text string) (output string, exitCode int, spawnErr error)
}

// Selector resolves a bounded-time numeric choice.
type Selector struct {
	Runner  Runner
	Timeout time.Duration

	state state
}

// New assembles a Selector from global configuration.
func New() *Selector {
	timeout := time.Duration(viper.GetInt(key.DialogTimeout)) * time.Second

	return &Selector{
		Runner: &ExecRunner{
			Binary:  util.ResolveBinary(viper.GetString(key.DialogPath)),
			Timeout: timeout,
		},
		Timeout: timeout,
	}
}

// Ask determines how many leading items of a collection with total entries
// to enqueue. It always returns a concrete Decision.
func (s *Selector) Ask(total int) Decision {
	s.state = stateDialogRequested

	text := fmt.Sprintf(
		"Playlist detected with %s.\nHow many items do you want to fetch? (0 for all)",
		util.Quantify(total, "entry", "entries"),
	)

	// The deadline covers a hung dialog process; the tool's own countdown
	// normally fires first.
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout+time.Second)
	defer cancel()

	s.state = stateAwaiting
	output, code, spawnErr := s.Runner.Prompt(ctx, text)

	if spawnErr != nil {
		s.state = stateUnavailable
		log.Warnf("dialog tool unavailable, enqueuing all %d items: %s", total, spawnErr)
		return s.resolve(Decision{Count: 0})
	}

	if ctx.Err() != nil || code == codeTimeout {
		log.Infof("dialog timed out, enqueuing all %d items", total)
		return s.resolve(Decision{Count: 0})
	}

	if code != codeOK {
		// Cancel button reads "Play only the first video".
		log.Infof("dialog cancelled, taking the first item only")
		return s.resolve(Decision{Count: 1})
	}

	count, err := strconv.Atoi(strings.TrimSpace(output))
	if err != nil || count < 0 {
		log.Warnf("invalid dialog answer %q, taking the first item only", output)
		return s.resolve(Decision{Count: 1})
	}

	return s.resolve(Decision{Count: count})
}

func (s *Selector) resolve(d Decision) Decision {
	s.state = stateResolved
	return d
}
