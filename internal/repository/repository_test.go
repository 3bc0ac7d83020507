package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/commerce-core/internal/domain"
)

type execCall struct {
	sql  string
	args []any
}

// fakeQuerier records Exec calls and returns canned row counts in order.
type fakeQuerier struct {
	execs    []execCall
	affected []int64
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	n := int64(0)
	if len(f.affected) > 0 {
		n = f.affected[0]
		f.affected = f.affected[1:]
	}
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", n)), nil
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func TestCancelStalePendingPredicate(t *testing.T) {
	db := &fakeQuerier{affected: []int64{4}}
	cutoff := time.Date(2026, 8, 1, 10, 1, 0, 0, time.UTC)

	n, err := NewPaymentRepository(db).CancelStalePending(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	require.Len(t, db.execs, 1)
	call := db.execs[0]
	assert.Contains(t, call.sql, "status=$2 AND created_at < $3")
	assert.Equal(t, []any{domain.PaymentStatusCancelled, domain.PaymentStatusPending, cutoff}, call.args)
}

func TestRepairVariantStatusesNeverTouchesInactive(t *testing.T) {
	db := &fakeQuerier{affected: []int64{2, 1}}

	n, err := NewCatalogRepository(db).RepairVariantStatuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	require.Len(t, db.execs, 2)

	// Zero stock flips Active to OutOfStock.
	assert.Equal(t, []any{domain.StockStatusOutOfStock, domain.StockStatusActive}, db.execs[0].args)
	assert.Contains(t, db.execs[0].sql, "stock_quantity <= 0")

	// Restocked flips OutOfStock back to Active.
	assert.Equal(t, []any{domain.StockStatusActive, domain.StockStatusOutOfStock}, db.execs[1].args)
	assert.Contains(t, db.execs[1].sql, "stock_quantity > 0")

	for _, call := range db.execs {
		for _, arg := range call.args {
			assert.NotEqual(t, domain.StockStatusInactive, arg)
		}
	}
}

func TestRepairProductStatusesSumsVariantStock(t *testing.T) {
	db := &fakeQuerier{affected: []int64{1, 0}}

	n, err := NewCatalogRepository(db).RepairProductStatuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.Len(t, db.execs, 2)
	for _, call := range db.execs {
		assert.Contains(t, call.sql, "SUM(v.stock_quantity)")
	}
}

func TestExpireOverdueKeysIsForwardOnly(t *testing.T) {
	db := &fakeQuerier{affected: []int64{5}}
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	n, err := NewLicenseRepository(db).ExpireOverdueKeys(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	require.Len(t, db.execs, 1)
	call := db.execs[0]
	assert.Contains(t, call.sql, "expires_at <= $2")
	assert.Contains(t, call.sql, "status <> $1")
	assert.Equal(t, []any{domain.AssetStatusExpired, now}, call.args)
}

func TestUpdateSlaStatusesSkipsEmptyBatch(t *testing.T) {
	db := &fakeQuerier{}

	n, err := NewTicketRepository(db).UpdateSlaStatuses(context.Background(), domain.SlaStatusOverdue, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, db.execs)
}

func TestUpdateSlaStatusesBulkUpdate(t *testing.T) {
	db := &fakeQuerier{affected: []int64{2}}

	n, err := NewTicketRepository(db).UpdateSlaStatuses(context.Background(), domain.SlaStatusOverdue, []string{"t1", "t2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.Len(t, db.execs, 1)
	call := db.execs[0]
	assert.True(t, strings.Contains(call.sql, "id = ANY($2)"))
	assert.Equal(t, []any{domain.SlaStatusOverdue, []string{"t1", "t2"}}, call.args)
}
