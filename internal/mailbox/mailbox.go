package mailbox

import (
	"context"
	"sync"
)

// Mailbox is a single-slot buffer where the latest job always wins.
// It is NOT a queue. It holds at most one pending job.
// Put() overwrites any existing job. Take() blocks until a job is available
// or the context ends.
type Mailbox[T any] struct {
	mu   sync.Mutex
	slot chan T
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{slot: make(chan T, 1)}
}

// Put stores a job in the mailbox, replacing any existing job.
// It never blocks. It reports whether a pending job was replaced.
func (m *Mailbox[T]) Put(j T) (replaced bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.slot:
		replaced = true
	default:
	}
	m.slot <- j
	return replaced
}

// Take blocks until a job is available, then returns it and clears the slot.
// ok is false when ctx ended first.
func (m *Mailbox[T]) Take(ctx context.Context) (j T, ok bool) {
	select {
	case j = <-m.slot:
		return j, true
	case <-ctx.Done():
		return j, false
	}
}

// TryTake returns the job if present, or nil if empty.
// It never blocks.
func (m *Mailbox[T]) TryTake() *T {
	select {
	case j := <-m.slot:
		return &j
	default:
		return nil
	}
}

// HasJob reports whether a job is currently waiting.
func (m *Mailbox[T]) HasJob() bool {
	return len(m.slot) > 0
}
