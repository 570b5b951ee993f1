// Package handler coordinates one decide-and-act cycle: decode the request,
// probe for a live player session, resolve media, optionally prompt for a
// playlist item count, then either append to the running session or spawn a
// fresh player.
//
// Each URI activation is a short-lived process; the handler holds no state
// across invocations and performs every external call exactly once.
package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/gabreek/mpv-handler-queue/dialog"
	"github.com/gabreek/mpv-handler-queue/key"
	"github.com/gabreek/mpv-handler-queue/log"
	"github.com/gabreek/mpv-handler-queue/player"
	"github.com/gabreek/mpv-handler-queue/protocol"
	"github.com/gabreek/mpv-handler-queue/util"
	"github.com/gabreek/mpv-handler-queue/where"
	"github.com/gabreek/mpv-handler-queue/ytdl"
	"github.com/spf13/viper"
)

// ErrEnqueueUnavailable is returned when the request forced enqueueing but
// no session was reachable. Nothing is launched in that case.
var ErrEnqueueUnavailable = errors.New("enqueue requested but no reachable session")

// Channel is the control-channel surface the orchestrator needs.
type Channel interface {
	EnqueueBatch(items []player.Item) (player.EnqueueResult, error)
	Close() error
}

// Resolver classifies targets and resolves entries to direct URLs.
type Resolver interface {
	Inspect(ctx context.Context, target string) (ytdl.MediaTarget, error)
	ResolveEntry(ctx context.Context, entry ytdl.Entry) (player.Item, error)
}

// Selector decides how many collection items to enqueue.
type Selector interface {
	Ask(total int) dialog.Decision
}

// Spawner launches a fresh detached player process.
type Spawner interface {
	Launch(args []string, target string) error
}

// Handler is the top-level orchestrator for one invocation.
type Handler struct {
	Socket   string
	YtdlPath string

	Probe    func(socketPath string) bool
	Dial     func(socketPath string) (Channel, error)
	Resolver Resolver
	Selector Selector
	Spawner  Spawner
}

// New wires a Handler from global configuration and the real collaborators.
func New() *Handler {
	socket := viper.GetString(key.PlayerSocket)
	if socket == "" {
		socket = where.DefaultSocket()
	}

	ytdlPath := util.ResolveBinary(viper.GetString(key.YtdlPath))

	return &Handler{
		Socket:   socket,
		YtdlPath: ytdlPath,
		Probe:    player.Probe,
		Dial: func(socketPath string) (Channel, error) {
			return player.Dial(socketPath)
		},
		Resolver: ytdl.New(),
		Selector: dialog.New(),
		Spawner: &player.Spawner{
			Binary: util.ResolveBinary(viper.GetString(key.PlayerPath)),
			Socket: socket,
			Proxy:  viper.GetString(key.PlayerProxy),
		},
	}
}

// Run executes the decide-and-act cycle for one decoded request.
func (h *Handler) Run(ctx context.Context, req *protocol.Request) error {
	switch req.Enqueue {
	case protocol.EnqueueOn:
		if !h.Probe(h.Socket) {
			return fmt.Errorf("%w at %s", ErrEnqueueUnavailable, h.Socket)
		}
		return h.enqueue(ctx, req)

	case protocol.EnqueueOff:
		return h.launch(req, req.URL)

	default:
		if h.Probe(h.Socket) {
			log.Infof("reachable session at %s, enqueuing", h.Socket)
			return h.enqueue(ctx, req)
		}
		log.Infof("no reachable session, launching a new player")
		return h.launch(req, req.URL)
	}
}

// enqueue resolves the target and appends the chosen items to the live
// session without interrupting current playback.
func (h *Handler) enqueue(ctx context.Context, req *protocol.Request) error {
	target, err := h.Resolver.Inspect(ctx, req.URL)
	if err != nil {
		return err
	}

	entries := target.Entries
	if target.Kind == ytdl.Collection {
		decision := h.Selector.Ask(len(entries))
		if !decision.All() {
			entries = entries[:util.Min(decision.Count, len(entries))]
		}
	}

	// Per-entry resolution happens only now, after the selection trimmed
	// the list: entries the user discarded cost nothing.
	items := make([]player.Item, 0, len(entries))
	for _, entry := range entries {
		if entry.Title == "" {
			entry.Title = req.Title.OrElse("")
		}

		item, err := h.Resolver.ResolveEntry(ctx, entry)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	conn, err := h.Dial(h.Socket)
	if err != nil {
		return err
	}
	defer util.Ignore(conn.Close)

	result, err := conn.EnqueueBatch(items)
	if err != nil {
		return fmt.Errorf("enqueued %s before failure: %w",
			util.Quantify(result.Enqueued(), "item", "items"), err)
	}

	log.Infof("enqueued %s (%d rejected)",
		util.Quantify(result.Enqueued(), "item", "items"), result.Rejected())
	return nil
}

// launch spawns a fresh player with the original target; a new instance
// performs its own resolution, so no direct URL is needed up front.
func (h *Handler) launch(req *protocol.Request, target string) error {
	args := player.BuildArgs(req, h.YtdlPath)
	return h.Spawner.Launch(args, target)
}
