// Package mailbox provides a single-slot buffer where the latest job
// always wins. It is NOT a queue: a burst of triggers collapses into
// one pending job, which is exactly what a backup run wants.
package mailbox

import (
	"context"
	"sync"
)

type Mailbox[T any] struct {
	mu  sync.Mutex
	job *T
	sig chan struct{}
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{sig: make(chan struct{}, 1)}
}

// Put stores a job, replacing any existing one. It never blocks.
func (m *Mailbox[T]) Put(j T) {
	m.mu.Lock()
	m.job = &j
	m.mu.Unlock()

	select {
	case m.sig <- struct{}{}:
	default:
	}
}

// Take blocks until a job is available or ctx ends. The second return
// is false only when the context ended.
func (m *Mailbox[T]) Take(ctx context.Context) (T, bool) {
	for {
		m.mu.Lock()
		if m.job != nil {
			j := *m.job
			m.job = nil
			m.mu.Unlock()
			return j, true
		}
		m.mu.Unlock()

		select {
		case <-m.sig:
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// HasJob reports whether a job is currently waiting.
func (m *Mailbox[T]) HasJob() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.job != nil
}
