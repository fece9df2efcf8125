package repository

import (
	"context"

	"github.com/coursebay/lms-backend/internal/domain/entity"
)

// PaymentRepository defines the interface for payment audit records.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*entity.Payment, error)
	Delete(ctx context.Context, id string) error
}
