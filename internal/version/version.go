// Package version tracks a monotonically increasing board version. Every
// admin write bumps it, and display clients (SSE, websocket, ETag, response
// cache keys) use it to tell whether the board changed.
package version

import (
	"context"
	"sync"
)

// Tracker is implemented by the Redis and in-process trackers.
type Tracker interface {
	// Current returns the latest version.
	Current(ctx context.Context) (int64, error)
	// Bump increments the version and notifies subscribers.
	Bump(ctx context.Context) (int64, error)
	// Subscribe delivers new versions until ctx is done, then closes the
	// channel. Slow readers only see the latest version.
	Subscribe(ctx context.Context) <-chan int64
}

// Memory is a Tracker for a single process.
type Memory struct {
	mu   sync.Mutex
	v    int64
	subs map[chan int64]struct{}
}

// NewMemory returns a tracker starting at version 1.
func NewMemory() *Memory {
	return &Memory{v: 1, subs: make(map[chan int64]struct{})}
}

func (m *Memory) Current(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.v, nil
}

func (m *Memory) Bump(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.v++
	for ch := range m.subs {
		offer(ch, m.v)
	}
	return m.v, nil
}

func (m *Memory) Subscribe(ctx context.Context) <-chan int64 {
	ch := make(chan int64, 1)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs, ch)
		m.mu.Unlock()
		close(ch)
	}()
	return ch
}

// offer replaces any unread value in ch with v.
func offer(ch chan int64, v int64) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
