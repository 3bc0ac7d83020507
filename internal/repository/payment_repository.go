package repository

import (
	"context"
	"time"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// PaymentRepository reads payments for revenue aggregation and performs the
// stale-payment cancellation.
type PaymentRepository interface {
	CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error)
	ListPaidBetween(ctx context.Context, from, to time.Time) ([]domain.Payment, error)
}

type paymentRepository struct {
	db Querier
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(db Querier) PaymentRepository {
	return &paymentRepository{db: db}
}

// CancelStalePending bulk-cancels pending payments older than the cutoff.
// The predicate matches on status as well as age, so a payment that went
// Paid between our read and this write is never touched.
func (r *paymentRepository) CancelStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
        UPDATE payments SET status=$1
        WHERE status=$2 AND created_at < $3`
	cmd, err := r.db.Exec(ctx, query, domain.PaymentStatusCancelled, domain.PaymentStatusPending, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *paymentRepository) ListPaidBetween(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	const query = `
        SELECT id, subscription_id, status, amount_cents, created_at, paid_at
        FROM payments
        WHERE status=$1 AND paid_at >= $2 AND paid_at < $3`
	rows, err := r.db.Query(ctx, query, domain.PaymentStatusPaid, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.SubscriptionID,
			&payment.Status,
			&payment.AmountCents,
			&payment.CreatedAt,
			&payment.PaidAt,
		); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}
