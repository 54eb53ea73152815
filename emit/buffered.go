package emit

import (
	"context"
	"sync"
)

// BufferedEmitter stores events in memory, keyed by CompileID, so that
// tests can inspect the event history of a call.
type BufferedEmitter struct {
	mu     sync.RWMutex
	events map[string][]Event
}

// NewBufferedEmitter returns an empty BufferedEmitter. Safe for
// concurrent use.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{events: make(map[string][]Event)}
}

func (b *BufferedEmitter) Emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[event.CompileID] = append(b.events[event.CompileID], event)
}

func (b *BufferedEmitter) EmitBatch(_ context.Context, events []Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, event := range events {
		b.events[event.CompileID] = append(b.events[event.CompileID], event)
	}
	return nil
}

func (b *BufferedEmitter) Flush(context.Context) error { return nil }

// History returns every event recorded for compileID, in emission order.
// Returns an empty slice, never nil, when no events exist.
func (b *BufferedEmitter) History(compileID string) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	events := b.events[compileID]
	out := make([]Event, len(events))
	copy(out, events)
	return out
}

// Clear removes stored events for compileID, or every run if compileID is
// empty.
func (b *BufferedEmitter) Clear(compileID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if compileID == "" {
		b.events = make(map[string][]Event)
		return
	}
	delete(b.events, compileID)
}
