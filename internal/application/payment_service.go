package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/coursebay/lms-backend/internal/domain/entity"
	"github.com/coursebay/lms-backend/internal/domain/repository"
	"github.com/coursebay/lms-backend/pkg/apperror"
	"github.com/coursebay/lms-backend/pkg/payment"
)

// PaymentService owns the subscription lifecycle against the payment processor.
//
// External-plus-local mutations here are best-effort, not transactional: the
// processor call lands first and the local mirror follows. The admin report
// reads from the processor, so drift is visible there.
type PaymentService struct {
	Users    repository.UserRepository
	Payments repository.PaymentRepository
	Gateway  payment.Gateway
	Logger   *logrus.Logger

	KeyID        string
	KeySecret    string
	PlanID       string
	RefundWindow time.Duration
}

// RazorpayKey returns the publishable key the frontend needs for checkout.
func (s *PaymentService) RazorpayKey() string { return s.KeyID }

// Subscribe creates a processor subscription and mirrors its id and status on
// the user. Admins are not billable.
func (s *PaymentService) Subscribe(ctx context.Context, userID string) (string, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", apperror.Unauthorized("Unauthorized, please login")
	}
	if u.Role == entity.RoleAdmin {
		return "", apperror.BadRequest("Admin cannot purchase a subscription")
	}

	sub, err := s.Gateway.CreateSubscription(ctx, s.PlanID)
	if err != nil {
		return "", apperror.Upstream("failed to create subscription", err)
	}

	u.Subscription.ID = sub.ID
	u.Subscription.Status = sub.Status
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	return sub.ID, nil
}

// Verify recomputes the HMAC over "paymentID|subscriptionID" with the stored
// subscription id and, on match, persists the immutable audit record and
// activates the user's subscription.
func (s *PaymentService) Verify(ctx context.Context, userID, paymentID, subscriptionID, signature string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return apperror.Unauthorized("Unauthorized, please login")
	}

	if !payment.VerifySignature(paymentID, u.Subscription.ID, s.KeySecret, signature) {
		return apperror.BadRequest("Payment not verified, please try again")
	}

	if err := s.Payments.Create(ctx, &entity.Payment{
		PaymentID:      paymentID,
		SubscriptionID: subscriptionID,
		Signature:      signature,
	}); err != nil {
		return err
	}

	u.Subscription.Status = entity.SubscriptionStatusActive
	return s.Users.Update(ctx, u)
}

// Unsubscribe cancels the subscription and refunds the captured payment.
// The refund window is checked before anything is cancelled: an expired
// window rejects the whole operation and mutates nothing on either side.
func (s *PaymentService) Unsubscribe(ctx context.Context, userID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return apperror.Unauthorized("Unauthorized, please login")
	}
	if u.Role == entity.RoleAdmin {
		return apperror.BadRequest("Admin does not need to cancel subscription")
	}
	subscriptionID := u.Subscription.ID
	if subscriptionID == "" {
		return apperror.BadRequest("No active subscription found")
	}

	p, err := s.Payments.GetBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		return apperror.NotFound("Payment record not found")
	}
	if time.Since(p.CreatedAt) >= s.RefundWindow {
		return apperror.BadRequest("Refund period is over, so there will not be any refunds provided")
	}

	if _, err := s.Gateway.CancelSubscription(ctx, subscriptionID); err != nil {
		return apperror.Upstream("failed to cancel subscription", err)
	}
	if err := s.Gateway.Refund(ctx, p.PaymentID); err != nil {
		return apperror.Upstream("failed to refund payment", err)
	}

	if err := s.Payments.Delete(ctx, p.ID.Hex()); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("payment_id", p.PaymentID).Warn("failed to delete payment record")
	}
	u.Subscription = entity.Subscription{}
	return s.Users.Update(ctx, u)
}

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Report is the admin charting payload: raw processor records, the fixed
// month mapping, and the ordered January..December count array.
type Report struct {
	Subscriptions      []payment.Subscription `json:"allPayments"`
	FinalMonths        map[string]int         `json:"finalMonths"`
	MonthlySalesRecord []int                  `json:"monthlySalesRecord"`
}

// Report fetches a page of processor subscriptions and buckets them by the
// calendar month of their start time.
func (s *PaymentService) Report(ctx context.Context, count, skip int) (*Report, error) {
	if count <= 0 {
		count = 10
	}
	if skip < 0 {
		skip = 0
	}
	subs, err := s.Gateway.ListSubscriptions(ctx, count, skip)
	if err != nil {
		return nil, apperror.Upstream("failed to fetch payments", err)
	}
	return buildReport(subs), nil
}

func buildReport(subs []payment.Subscription) *Report {
	finalMonths := make(map[string]int, 12)
	for _, name := range monthNames {
		finalMonths[name] = 0
	}
	for _, sub := range subs {
		if sub.StartAt == 0 {
			continue
		}
		month := time.Unix(sub.StartAt, 0).UTC().Month()
		finalMonths[monthNames[int(month)-1]]++
	}
	record := make([]int, 0, 12)
	for _, name := range monthNames {
		record = append(record, finalMonths[name])
	}
	return &Report{Subscriptions: subs, FinalMonths: finalMonths, MonthlySalesRecord: record}
}
