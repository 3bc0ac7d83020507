package repository

import (
	"context"

	"github.com/spec-kit/commerce-core/internal/domain"
)

// CatalogRepository repairs stock-derived status flags. Every statement here
// matches only Active or OutOfStock rows; the administrator-set Inactive
// status never appears in a predicate or an assignment.
type CatalogRepository interface {
	RepairVariantStatuses(ctx context.Context) (int64, error)
	RepairProductStatuses(ctx context.Context) (int64, error)
}

type catalogRepository struct {
	db Querier
}

// NewCatalogRepository instantiates repository.
func NewCatalogRepository(db Querier) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) RepairVariantStatuses(ctx context.Context) (int64, error) {
	const markOut = `
        UPDATE product_variants SET status=$1
        WHERE stock_quantity <= 0 AND status=$2`
	const markActive = `
        UPDATE product_variants SET status=$1
        WHERE stock_quantity > 0 AND status=$2`

	out, err := r.db.Exec(ctx, markOut, domain.StockStatusOutOfStock, domain.StockStatusActive)
	if err != nil {
		return 0, err
	}
	active, err := r.db.Exec(ctx, markActive, domain.StockStatusActive, domain.StockStatusOutOfStock)
	if err != nil {
		return 0, err
	}
	return out.RowsAffected() + active.RowsAffected(), nil
}

// RepairProductStatuses applies the same rule at the product level, using the
// sum of each product's variant stock.
func (r *catalogRepository) RepairProductStatuses(ctx context.Context) (int64, error) {
	const markOut = `
        UPDATE products p SET status=$1
        WHERE p.status=$2
          AND COALESCE((SELECT SUM(v.stock_quantity) FROM product_variants v WHERE v.product_id = p.id), 0) <= 0`
	const markActive = `
        UPDATE products p SET status=$1
        WHERE p.status=$2
          AND COALESCE((SELECT SUM(v.stock_quantity) FROM product_variants v WHERE v.product_id = p.id), 0) > 0`

	out, err := r.db.Exec(ctx, markOut, domain.StockStatusOutOfStock, domain.StockStatusActive)
	if err != nil {
		return 0, err
	}
	active, err := r.db.Exec(ctx, markActive, domain.StockStatusActive, domain.StockStatusOutOfStock)
	if err != nil {
		return 0, err
	}
	return out.RowsAffected() + active.RowsAffected(), nil
}
