package repository

import (
	"context"
	"time"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// LicenseRepository flips overdue time-limited assets to Expired. The
// predicates exclude rows already Expired, so the transition is forward-only.
type LicenseRepository interface {
	ExpireOverdueKeys(ctx context.Context, now time.Time) (int64, error)
	ExpireOverdueAccounts(ctx context.Context, now time.Time) (int64, error)
}

type licenseRepository struct {
	db Querier
}

// NewLicenseRepository instantiates repository.
func NewLicenseRepository(db Querier) LicenseRepository {
	return &licenseRepository{db: db}
}

func (r *licenseRepository) ExpireOverdueKeys(ctx context.Context, now time.Time) (int64, error) {
	const query = `
        UPDATE license_keys SET status=$1
        WHERE expires_at IS NOT NULL AND expires_at <= $2 AND status <> $1`
	cmd, err := r.db.Exec(ctx, query, domain.AssetStatusExpired, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *licenseRepository) ExpireOverdueAccounts(ctx context.Context, now time.Time) (int64, error) {
	const query = `
        UPDATE provisioned_accounts SET status=$1
        WHERE expires_at IS NOT NULL AND expires_at <= $2 AND status <> $1`
	cmd, err := r.db.Exec(ctx, query, domain.AssetStatusExpired, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
