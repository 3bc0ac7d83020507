package maintenance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-core/internal/clock"
	"github.com/spec-kit/commerce-core/internal/events"
)

type fakeDB struct {
	mu  sync.Mutex
	txs []*fakeTx
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	tx := &fakeTx{}
	db.txs = append(db.txs, tx)
	return tx, nil
}

type fakeTx struct {
	mu        sync.Mutex
	execs     []string
	execArgs  [][]any
	committed bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.committed {
		return pgx.ErrTxClosed
	}
	return nil
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.execs = append(t.execs, sql)
	t.execArgs = append(t.execArgs, arguments)
	return pgconn.NewCommandTag("UPDATE 1"), nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func TestRunOnceSweepsInOneTransaction(t *testing.T) {
	db := &fakeDB{}
	dispatcher := &capturingDispatcher{}
	now := time.Date(2026, 8, 1, 10, 6, 0, 0, time.UTC)
	timeout := 5 * time.Minute

	loop := New(db, zap.NewNop(), clock.Fixed{Time: now}, dispatcher, time.Minute, timeout)
	require.NoError(t, loop.RunOnce(context.Background()))

	require.Len(t, db.txs, 1)
	tx := db.txs[0]
	assert.True(t, tx.committed)

	// Payment hygiene first, then variant repair, then product repair.
	require.Len(t, tx.execs, 5)
	assert.Contains(t, tx.execs[0], "UPDATE payments")
	assert.Contains(t, tx.execs[1], "UPDATE product_variants")
	assert.Contains(t, tx.execs[2], "UPDATE product_variants")
	assert.Contains(t, tx.execs[3], "UPDATE products")
	assert.Contains(t, tx.execs[4], "UPDATE products")

	// A payment created at exactly now-timeout has not yet timed out.
	assert.Equal(t, now.Add(-timeout), tx.execArgs[0][2])
}

func TestRunOncePublishesOutcomeEvents(t *testing.T) {
	db := &fakeDB{}
	dispatcher := &capturingDispatcher{}
	loop := New(db, zap.NewNop(), clock.Fixed{Time: time.Now().UTC()}, dispatcher, time.Minute, 5*time.Minute)

	require.NoError(t, loop.RunOnce(context.Background()))

	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	require.Len(t, dispatcher.events, 2)
	assert.Equal(t, events.EventPaymentsCancelled, dispatcher.events[0].Type)
	assert.Equal(t, events.EventStockRepaired, dispatcher.events[1].Type)
	for _, e := range dispatcher.events {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "maintenance", e.Job)
	}
}

func TestStartStopTicksAtLeastOnce(t *testing.T) {
	db := &fakeDB{}
	loop := New(db, zap.NewNop(), clock.System{}, nil, time.Hour, 5*time.Minute)

	loop.Start()
	// First tick fires immediately; an hour interval means no second tick.
	deadline := time.After(2 * time.Second)
	for {
		db.mu.Lock()
		n := len(db.txs)
		db.mu.Unlock()
		if n >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("loop never ticked")
		case <-time.After(10 * time.Millisecond):
		}
	}
	loop.Stop()

	db.mu.Lock()
	defer db.mu.Unlock()
	assert.Len(t, db.txs, 1)
	assert.True(t, db.txs[0].committed)
}

func TestStartIsIdempotent(t *testing.T) {
	db := &fakeDB{}
	loop := New(db, zap.NewNop(), clock.System{}, nil, time.Hour, 5*time.Minute)

	loop.Start()
	loop.Start()
	loop.Stop()
	loop.Stop()
}
