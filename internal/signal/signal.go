// Package signal fans out payload-free refresh notifications.
//
// A send never blocks the publisher: when a subscriber still has an
// undelivered signal buffered, the new one is dropped, since the pending
// signal already asks for the same full re-query.
package signal

import "sync"

const defaultBufferSize = 16

// Broadcaster delivers Notify calls to every live subscriber.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[uint64]chan struct{}
	nextID      uint64
	closed      bool
	bufferSize  int
}

// New creates a Broadcaster with the default subscriber buffer.
func New() *Broadcaster {
	return NewWithBuffer(defaultBufferSize)
}

// NewWithBuffer creates a Broadcaster whose subscriber channels hold size signals.
func NewWithBuffer(size int) *Broadcaster {
	if size <= 0 {
		size = 1
	}
	return &Broadcaster{
		subscribers: make(map[uint64]chan struct{}),
		bufferSize:  size,
	}
}

// Subscribe returns a signal channel and a cancel func that releases it.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, b.bufferSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	b.nextID++
	id := b.nextID
	b.subscribers[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.remove(id) })
	}
}

// Notify signals every subscriber without blocking.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close closes all subscriber channels. Safe to call more than once.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}

func (b *Broadcaster) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}
