// Package lifecycle exposes daybook collection changes as a lifecycle.Source.
package lifecycle

import (
	"context"
	"slices"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/daybook/pkg/core"
)

// CollectionKeys are the blobs daybook itself reads.
var CollectionKeys = []string{core.VoiceNotesKey, core.TasksKey}

type changeSource struct {
	events <-chan core.Event
	keys   []string
	out    chan lifecycle.Event
}

// NewSource bridges a repository watch channel to lifecycle events.
//
// Only changes to the given keys are forwarded (CollectionKeys when none
// are given). While the consumer is busy, further changes to a key that
// already has an undelivered event are folded into it, so a burst of
// writes costs one reload per collection.
func NewSource(events <-chan core.Event, keys ...string) lifecycle.Source {
	if len(keys) == 0 {
		keys = CollectionKeys
	}
	return &changeSource{
		events: events,
		keys:   keys,
		out:    make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done, or until the watch channel
// closes and everything queued has been delivered. Then it closes Events.
func (s *changeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)

		var pending []core.Event
		in := s.events
		for in != nil || len(pending) > 0 {
			var send chan lifecycle.Event
			var next lifecycle.Event
			if len(pending) > 0 {
				send = s.out
				next = pending[0]
			}

			select {
			case <-ctx.Done():
				return nil
			case send <- next:
				pending = pending[1:]
			case e, ok := <-in:
				if !ok {
					in = nil
					continue
				}
				if slices.Contains(s.keys, e.Key) {
					pending = coalesce(pending, e)
				}
			}
		}
		return nil
	})
	return nil
}

// coalesce queues e, replacing an undelivered event for the same key.
func coalesce(pending []core.Event, e core.Event) []core.Event {
	for i := range pending {
		if pending[i].Key == e.Key {
			pending[i] = e
			return pending
		}
	}
	return append(pending, e)
}
