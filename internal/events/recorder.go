package events

import (
	"context"
	"sync"
)

// Recorder keeps published events in memory. Tests use it to assert on
// what the application emitted.
type Recorder struct {
	mu     sync.Mutex
	events []AccountEvent
	Err    error
}

func (r *Recorder) Publish(_ context.Context, ev AccountEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []AccountEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AccountEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []Type {
	evs := r.Events()
	out := make([]Type, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ev.Type)
	}
	return out
}
