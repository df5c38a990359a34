package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyReachesEverySubscriber(t *testing.T) {
	b := New()
	first, cancelFirst := b.Subscribe()
	defer cancelFirst()
	second, cancelSecond := b.Subscribe()
	defer cancelSecond()

	b.Notify()

	assert.Len(t, first, 1)
	assert.Len(t, second, 1)
}

func TestNotifyDropsWhenBufferFull(t *testing.T) {
	b := NewWithBuffer(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	b.Notify()
	b.Notify()
	b.Notify()

	assert.Len(t, ch, 1)
}

func TestCancelClosesChannel(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	b.Notify()
}

func TestCloseIsIdempotent(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe()
	b.Close()
	b.Close()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)

	late, _ := b.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}
