package subscription

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/pixelgrid-network/pixelgrid/common/errs"
)

// SubscriptionBufferSize is the buffer size of the subscription channel.
// It is used to absorb bursts before the dispatcher starts dropping values
// for a slow consumer.
var SubscriptionBufferSize = 64

// Subscription is a subscription to a stream of values from a dispatcher.
// Values are forwarded to the consumer channel by a dedicated goroutine so a
// slow consumer never blocks the dispatcher.
type Subscription[T any] struct {
	// The channel which the subscription sends values.
	channel chan<- T

	// The in channel receives values from the dispatcher.
	in chan T

	// The error channel receives errors from the dispatcher.
	err      chan error
	quitOnce sync.Once

	// Closing of the subscription is requested by sending on 'quit'. This is
	// handled by the forwarding loop, which closes 'quitDone' when it has
	// stopped sending to sub.channel.
	quit     chan struct{}
	quitDone chan struct{}
}

func NewSubscription[T any](channel chan<- T) *Subscription[T] {
	subscription := &Subscription[T]{
		channel:  channel,
		in:       make(chan T, SubscriptionBufferSize),
		err:      make(chan error, 1),
		quit:     make(chan struct{}),
		quitDone: make(chan struct{}),
	}
	go subscription.run()
	return subscription
}

func (s *Subscription[T]) Unsubscribe() {
	_ = s.UnsubscribeWithContext(context.Background())
}

func (s *Subscription[T]) UnsubscribeWithContext(ctx context.Context) (err error) {
	s.quitOnce.Do(func() {
		select {
		case s.quit <- struct{}{}:
			<-s.quitDone
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return errors.WithStack(err)
}

// Client returns a client subscription for this subscription.
func (s *Subscription[T]) Client() *ClientSubscription[T] {
	return &ClientSubscription[T]{
		subscription: s,
	}
}

// Err returns the error channel of the subscription.
func (s *Subscription[T]) Err() <-chan error {
	return s.err
}

// Done returns the done channel of the subscription
func (s *Subscription[T]) Done() <-chan struct{} {
	return s.quitDone
}

// IsClosed returns status of the subscription
func (s *Subscription[T]) IsClosed() bool {
	select {
	case <-s.quitDone:
		return true
	default:
		return false
	}
}

// Send sends a value to the subscription, blocking until the forwarding
// buffer accepts it. If the subscription is closed, it returns an error.
func (s *Subscription[T]) Send(ctx context.Context, value T) error {
	select {
	case s.in <- value:
	case <-s.quitDone:
		return errors.Wrap(errs.InternalError, "subscription is closed")
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
	return nil
}

// TrySend sends a value to the subscription without blocking. It reports
// whether the value was accepted; a full buffer or a closed subscription
// drops the value.
func (s *Subscription[T]) TrySend(value T) bool {
	select {
	case <-s.quitDone:
		return false
	default:
	}
	select {
	case s.in <- value:
		return true
	default:
		return false
	}
}

// SendError sends an error to the subscription error channel without blocking.
func (s *Subscription[T]) SendError(err error) bool {
	select {
	case s.err <- err:
		return true
	default:
		return false
	}
}

// run starts the forwarding loop for the subscription.
func (s *Subscription[T]) run() {
	defer close(s.quitDone)

	for {
		select {
		case <-s.quit:
			return
		case value := <-s.in:
			select {
			case s.channel <- value:
			case <-s.quit:
				return
			}
		}
	}
}
