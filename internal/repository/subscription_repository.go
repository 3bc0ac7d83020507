package repository

import (
	"context"
	"time"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// SubscriptionRepository reads support-plan subscriptions for the monthly
// rollup and supplies the plan roster for zero-row emission.
type SubscriptionRepository interface {
	ListStartedBefore(ctx context.Context, to time.Time) ([]domain.PlanSubscription, error)
	ListPlanIDs(ctx context.Context) ([]string, error)
}

type subscriptionRepository struct {
	db Querier
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(db Querier) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) ListStartedBefore(ctx context.Context, to time.Time) ([]domain.PlanSubscription, error) {
	const query = `
        SELECT id, plan_id, user_id, status, started_at, expires_at, payment_id
        FROM plan_subscriptions
        WHERE started_at < $1`
	rows, err := r.db.Query(ctx, query, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PlanSubscription
	for rows.Next() {
		var sub domain.PlanSubscription
		if err := rows.Scan(
			&sub.ID,
			&sub.PlanID,
			&sub.UserID,
			&sub.Status,
			&sub.StartedAt,
			&sub.ExpiresAt,
			&sub.PaymentID,
		); err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

func (r *subscriptionRepository) ListPlanIDs(ctx context.Context) ([]string, error) {
	const query = `SELECT id FROM support_plans ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
