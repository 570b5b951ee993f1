package player

import (
	"errors"
	"fmt"

	"github.com/gabreek/mpv-handler-queue/log"
)

// ItemStatus describes the outcome of one append attempt within a batch.
type ItemStatus int

const (
	StatusEnqueued ItemStatus = iota
	StatusRejected
	StatusNotAttempted
)

// EnqueueResult records per-item outcomes of a batch append, in input order.
type EnqueueResult struct {
	Statuses []ItemStatus
}

// Enqueued returns how many items the player accepted.
func (r EnqueueResult) Enqueued() int {
	n := 0
	for _, s := range r.Statuses {
		if s == StatusEnqueued {
			n++
		}
	}
	return n
}

// Rejected returns how many items the player refused.
func (r EnqueueResult) Rejected() int {
	n := 0
	for _, s := range r.Statuses {
		if s == StatusRejected {
			n++
		}
	}
	return n
}

// EnqueueBatch appends items to the live player's queue in order, one strict
// request/reply exchange at a time. Source ordering is the queue order, so no
// command is sent before the previous one is acknowledged.
//
// A per-item rejection by the player is recorded and the batch continues. A
// transport failure is fatal: remaining items are marked not attempted and
// the returned error wraps ErrChannel.
func (c *Conn) EnqueueBatch(items []Item) (EnqueueResult, error) {
	result := EnqueueResult{Statuses: make([]ItemStatus, len(items))}
	for i := range result.Statuses {
		result.Statuses[i] = StatusNotAttempted
	}

	for i, item := range items {
		err := c.LoadFileAppend(item)
		if err == nil {
			result.Statuses[i] = StatusEnqueued
			log.Infof("enqueued [%d/%d]: %s", i+1, len(items), item.URL)
			continue
		}

		var cmdErr *CommandError
		if errors.As(err, &cmdErr) {
			result.Statuses[i] = StatusRejected
			log.Warnf("player rejected item %d (%s): %s", i+1, item.URL, cmdErr.Reason)
			continue
		}

		return result, fmt.Errorf("append item %d of %d: %w", i+1, len(items), err)
	}

	return result, nil
}
