package fanout

import (
	"context"
	"sync"

	"github.com/pixelgrid-network/pixelgrid/internal/subscription"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger"
	"github.com/pixelgrid-network/pixelgrid/pkg/logger/slogx"
)

// Event names published on the canvas channel.
const (
	EventPixelPlaced   = "pixel-placed"
	EventPixelsCleared = "pixels-cleared"
)

// Event is one realtime message to viewers.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// Fanout broadcasts canvas events to every subscribed viewer. Publishing is
// fire-and-forget: a slow subscriber's buffer fills and drops events rather
// than delaying the publisher.
type Fanout struct {
	mu   sync.Mutex
	subs map[*subscription.Subscription[Event]]struct{}
}

func New() *Fanout {
	return &Fanout{
		subs: make(map[*subscription.Subscription[Event]]struct{}),
	}
}

// Subscribe registers a viewer channel and returns its client handle. The
// subscription is removed from the fanout once it is unsubscribed.
func (f *Fanout) Subscribe(channel chan<- Event) *subscription.ClientSubscription[Event] {
	sub := subscription.NewSubscription(channel)

	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	go func() {
		<-sub.Done()
		f.mu.Lock()
		delete(f.subs, sub)
		f.mu.Unlock()
	}()

	return sub.Client()
}

// Publish delivers the event to all current subscribers without blocking.
// Dropped deliveries are logged at debug level only; the canvas is the
// source of truth and viewers recover by refetching the snapshot.
func (f *Fanout) Publish(ctx context.Context, event Event) {
	f.mu.Lock()
	subs := make([]*subscription.Subscription[Event], 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	var dropped int
	for _, sub := range subs {
		if !sub.TrySend(event) {
			dropped++
		}
	}
	if dropped > 0 {
		logger.DebugContext(ctx, "dropped realtime events for slow subscribers",
			slogx.String("event", event.Name),
			slogx.Int("dropped", dropped),
			slogx.Int("subscribers", len(subs)),
		)
	}
}

// SubscriberCount reports the number of attached subscribers.
func (f *Fanout) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
