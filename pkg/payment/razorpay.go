package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpay implements Gateway using the Razorpay server SDK.
// Subscriptions are billed bi-monthly over a year (total_count 6) and
// Razorpay notifies the customer itself (customer_notify 1).
type Razorpay struct {
	client *razorpay.Client
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret)}
}

func (r *Razorpay) CreateSubscription(ctx context.Context, planID string) (Subscription, error) {
	data := map[string]interface{}{
		"plan_id":         planID,
		"customer_notify": 1,
		"total_count":     6,
	}
	res, err := r.client.Subscription.Create(data, nil)
	if err != nil {
		return Subscription{}, err
	}
	return subscriptionFromMap(res), nil
}

func (r *Razorpay) CancelSubscription(ctx context.Context, subscriptionID string) (Subscription, error) {
	res, err := r.client.Subscription.Cancel(subscriptionID, nil, nil)
	if err != nil {
		return Subscription{}, err
	}
	return subscriptionFromMap(res), nil
}

func (r *Razorpay) ListSubscriptions(ctx context.Context, count, skip int) ([]Subscription, error) {
	options := map[string]interface{}{
		"count": count,
		"skip":  skip,
	}
	res, err := r.client.Subscription.All(options, nil)
	if err != nil {
		return nil, err
	}
	items, _ := res["items"].([]interface{})
	subs := make([]Subscription, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		subs = append(subs, subscriptionFromMap(m))
	}
	return subs, nil
}

// Refund refunds the full captured amount. The refund endpoint rejects a
// zero amount, so the payment is fetched first to learn what was captured.
func (r *Razorpay) Refund(ctx context.Context, paymentID string) error {
	p, err := r.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return err
	}
	amount := 0
	switch v := p["amount"].(type) {
	case float64:
		amount = int(v)
	case int64:
		amount = int(v)
	}
	if amount <= 0 {
		return fmt.Errorf("payment %s has no refundable amount", paymentID)
	}
	data := map[string]interface{}{"speed": "optimized"}
	_, err = r.client.Payment.Refund(paymentID, amount, data, nil)
	return err
}

func subscriptionFromMap(m map[string]interface{}) Subscription {
	s := Subscription{}
	if v, ok := m["id"].(string); ok {
		s.ID = v
	}
	if v, ok := m["status"].(string); ok {
		s.Status = v
	}
	if v, ok := m["plan_id"].(string); ok {
		s.PlanID = v
	}
	switch v := m["start_at"].(type) {
	case float64:
		s.StartAt = int64(v)
	case int64:
		s.StartAt = v
	}
	return s
}

var _ Gateway = (*Razorpay)(nil)
