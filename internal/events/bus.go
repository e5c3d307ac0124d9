package events

import (
	"sbd/internal/providers"
	"sync"
)

// Topic names. TopicUpdateRequest wakes the poll scheduler; it is the
// single trigger shared by the timer and every manual refresh.
// TopicRefreshed is broadcast after each successful publish and
// carries no payload.
const (
	TopicUpdateRequest = "streams:update"
	TopicRefreshed     = "streams:refreshed"

	defaultBufferSize = 16
)

type Bus struct {
	mu        sync.RWMutex
	subs      map[string]map[int]chan struct{}
	nextSubID int

	dropMu     sync.Mutex
	dropCounts map[string]uint64
	logger     providers.Logger
}

func NewBus(logger providers.Logger) *Bus {
	return &Bus{
		subs:       make(map[string]map[int]chan struct{}),
		dropCounts: make(map[string]uint64),
		logger:     logger,
	}
}

// Publish wakes every subscriber of the topic. Slow subscribers with a
// full buffer are skipped, not blocked on. The read lock stays held
// across the sends; unsubscribe closes channels under the write lock,
// so a send can never land on a closed channel.
func (b *Bus) Publish(topic string) {
	if topic == "" {
		return
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
			b.recordDrop(topic)
		}
	}
}

func (b *Bus) Subscribe(topic string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, defaultBufferSize)

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan struct{})
	}
	id := b.nextSubID
	b.nextSubID++
	b.subs[topic][id] = ch
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.subs[topic]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.subs, topic)
			}
		}
		close(ch)
	}

	return ch, unsubscribe
}

func (b *Bus) recordDrop(topic string) {
	b.dropMu.Lock()
	defer b.dropMu.Unlock()
	b.dropCounts[topic]++
	if b.dropCounts[topic]%100 == 1 {
		b.logger.Warnf(providers.TypeApp, "events: dropping messages for %s (total drops: %d)", topic, b.dropCounts[topic])
	}
}
