package payment

import "context"

// Subscription mirrors the processor's subscription record.
// StartAt is a unix timestamp in seconds.
type Subscription struct {
	ID      string
	Status  string
	PlanID  string
	StartAt int64
}

// Gateway is the narrow payment-processor contract the handlers rely on.
// Every call is attempted once; there are no retries.
type Gateway interface {
	CreateSubscription(ctx context.Context, planID string) (Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (Subscription, error)
	ListSubscriptions(ctx context.Context, count, skip int) ([]Subscription, error)
	Refund(ctx context.Context, paymentID string) error
}
