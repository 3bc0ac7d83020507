package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-core/internal/clock"
	"github.com/spec-kit/commerce-core/internal/events"
	"github.com/spec-kit/commerce-core/internal/repository"
)

// TxBeginner opens the per-tick transaction. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Loop is the short-interval consistency sweep, deliberately separate from
// the generic scheduler so a stats failure can never stall payment hygiene.
// Each tick auto-cancels stale pending payments and repairs stock-derived
// status flags, in one transaction.
type Loop struct {
	db             TxBeginner
	logger         *zap.Logger
	clock          clock.Clock
	dispatcher     events.Dispatcher
	interval       time.Duration
	paymentTimeout time.Duration

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// New constructs the maintenance loop.
func New(db TxBeginner, logger *zap.Logger, clk clock.Clock, dispatcher events.Dispatcher, interval, paymentTimeout time.Duration) *Loop {
	return &Loop{
		db:             db,
		logger:         logger,
		clock:          clk,
		dispatcher:     dispatcher,
		interval:       interval,
		paymentTimeout: paymentTimeout,
		stopCh:         make(chan struct{}),
	}
}

// Start begins ticking in a background goroutine. The first tick fires
// immediately.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	l.running = true
	l.mu.Unlock()

	l.wg.Add(1)
	go l.run()
	l.logger.Info("maintenance loop started", zap.Duration("interval", l.interval))
}

// Stop halts the loop and waits for an in-flight tick to finish.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	l.mu.Unlock()

	close(l.stopCh)
	l.wg.Wait()
	l.logger.Info("maintenance loop stopped")
}

func (l *Loop) run() {
	defer l.wg.Done()

	l.tick()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.tick()
		case <-l.stopCh:
			return
		}
	}
}

// tick is the fault boundary: a failed sweep is logged and retried on the
// next interval, nothing escalates.
func (l *Loop) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), l.interval)
	defer cancel()

	started := time.Now()
	if err := l.RunOnce(ctx); err != nil {
		l.logger.Error("maintenance sweep failed",
			zap.Duration("duration", time.Since(started)),
			zap.Error(err),
		)
	}
}

// RunOnce performs one sweep in a single transaction, committed at the end.
func (l *Loop) RunOnce(ctx context.Context) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	now := l.clock.Now()
	cutoff := now.Add(-l.paymentTimeout)

	payments := repository.NewPaymentRepository(tx)
	cancelled, err := payments.CancelStalePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cancel stale payments: %w", err)
	}

	catalog := repository.NewCatalogRepository(tx)
	variants, err := catalog.RepairVariantStatuses(ctx)
	if err != nil {
		return fmt.Errorf("repair variant statuses: %w", err)
	}
	products, err := catalog.RepairProductStatuses(ctx)
	if err != nil {
		return fmt.Errorf("repair product statuses: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}

	if cancelled > 0 {
		l.logger.Info("stale pending payments cancelled",
			zap.Int64("count", cancelled),
			zap.Time("cutoff", cutoff),
		)
		l.publish(ctx, events.EventPaymentsCancelled, now, events.PaymentsCancelledPayload{
			Count:  cancelled,
			Cutoff: cutoff,
		})
	}
	if variants > 0 || products > 0 {
		l.logger.Info("stock statuses repaired",
			zap.Int64("variants", variants),
			zap.Int64("products", products),
		)
		l.publish(ctx, events.EventStockRepaired, now, events.StockRepairedPayload{
			VariantsFlipped: variants,
			ProductsFlipped: products,
		})
	}
	return nil
}

func (l *Loop) publish(ctx context.Context, eventType events.EventType, at time.Time, payload any) {
	if l.dispatcher == nil {
		return
	}
	_ = l.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Job:       "maintenance",
		Timestamp: at,
		Payload:   payload,
	})
}
