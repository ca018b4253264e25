package realtime

import "context"

// Subscriber opens change-notification streams on the record store.
type Subscriber interface {
	// Subscribe joins the given tables with event filter "*" and delivers
	// every inbound change to handler. Delivery is best effort: there is no
	// durable offset and no replay.
	Subscribe(ctx context.Context, tables []string, handler Handler) (Subscription, error)
}

// Subscription is a handle to an open change-notification stream.
type Subscription interface {
	// Unsubscribe tears the stream down. It is idempotent.
	Unsubscribe()
}
