// Package broadcast fans the robot state out to a dynamic set of
// subscribers on a fixed-rate timer, independent of motion activity.
package broadcast

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"arm-control/models"
)

// Subscription is one subscriber's handle. Snapshots arrive on C at the
// broadcast rate; C is closed when the subscriber is dropped or the
// broadcaster shuts down.
type Subscription struct {
	id uint64
	C  <-chan models.StateSnapshot
	ch chan models.StateSnapshot
}

// Broadcaster snapshots the robot state on its own timer and pushes the
// snapshot to every live subscriber. Delivery is per-subscriber and
// non-blocking: a subscriber whose buffer is full is dropped and its
// channel closed, so a slow or dead consumer never stalls the timer or
// delivery to anyone else.
type Broadcaster struct {
	source   func() models.StateSnapshot
	interval time.Duration
	buffer   int
	logger   *slog.Logger

	mu     sync.Mutex
	subs   map[uint64]*Subscription
	nextID uint64
}

// New creates a broadcaster reading snapshots from source at the given
// interval. buffer is the per-subscriber channel depth.
func New(source func() models.StateSnapshot, interval time.Duration, buffer int, logger *slog.Logger) *Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &Broadcaster{
		source:   source,
		interval: interval,
		buffer:   buffer,
		logger:   logger.With("component", "state_broadcaster"),
		subs:     make(map[uint64]*Subscription),
	}
}

// Subscribe registers a new subscriber and returns its handle.
func (b *Broadcaster) Subscribe() *Subscription {
	ch := make(chan models.StateSnapshot, b.buffer)
	b.mu.Lock()
	b.nextID++
	sub := &Subscription{id: b.nextID, C: ch, ch: ch}
	b.subs[sub.id] = sub
	count := len(b.subs)
	b.mu.Unlock()

	b.logger.Info("subscriber added", "id", sub.id, "total", count)
	return sub
}

// Unsubscribe removes the subscriber and closes its channel. Safe to
// call for a subscriber the broadcaster has already dropped.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	_, live := b.subs[sub.id]
	if live {
		delete(b.subs, sub.id)
		close(sub.ch)
	}
	count := len(b.subs)
	b.mu.Unlock()

	if live {
		b.logger.Info("subscriber removed", "id", sub.id, "total", count)
	}
}

// SubscriberCount returns the number of live subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Run drives the broadcast loop until ctx is cancelled, then closes all
// remaining subscriber channels. A tick with no subscribers is a no-op.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	b.logger.Info("broadcast loop started", "interval", b.interval.String())
	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			b.logger.Info("broadcast loop stopped")
			return
		case <-ticker.C:
			b.tick()
		}
	}
}

// tick snapshots the state once and attempts delivery to every live
// subscriber. The snapshot read is a short lock in the state, not here.
func (b *Broadcaster) tick() {
	b.mu.Lock()
	if len(b.subs) == 0 {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	snap := b.source()

	b.mu.Lock()
	var dropped []uint64
	for id, sub := range b.subs {
		select {
		case sub.ch <- snap:
		default:
			delete(b.subs, id)
			close(sub.ch)
			dropped = append(dropped, id)
		}
	}
	b.mu.Unlock()

	for _, id := range dropped {
		b.logger.Warn("subscriber dropped: delivery buffer full", "id", id)
	}
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
	b.mu.Unlock()
}
