package subscription

import "context"

// ClientSubscription is the consumer-facing handle of a subscription. It can
// only observe and cancel the subscription, never send into it.
type ClientSubscription[T any] struct {
	subscription *Subscription[T]
}

func (c *ClientSubscription[T]) Unsubscribe() {
	c.subscription.Unsubscribe()
}

func (c *ClientSubscription[T]) UnsubscribeWithContext(ctx context.Context) (err error) {
	return c.subscription.UnsubscribeWithContext(ctx)
}

// Err returns the error channel of the subscription.
func (c *ClientSubscription[T]) Err() <-chan error {
	return c.subscription.Err()
}

// Done returns the done channel of the subscription
func (c *ClientSubscription[T]) Done() <-chan struct{} {
	return c.subscription.Done()
}

// IsClosed returns status of the subscription
func (c *ClientSubscription[T]) IsClosed() bool {
	return c.subscription.IsClosed()
}
