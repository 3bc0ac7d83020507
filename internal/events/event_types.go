package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSlaStatusesRecomputed EventType = "sla_statuses_recomputed"
	EventStatsRebuilt          EventType = "stats_rebuilt"
	EventPaymentsCancelled     EventType = "payments_cancelled"
	EventStockRepaired         EventType = "stock_repaired"
	EventAssetsExpired         EventType = "assets_expired"
)

// Event represents a maintenance event emitted by jobs.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Job       string      `json:"job"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// StatsGranularity identifies one of the three rebuild passes.
type StatsGranularity string

const (
	GranularityDaily   StatsGranularity = "daily"
	GranularityWeekly  StatsGranularity = "weekly"
	GranularityMonthly StatsGranularity = "monthly"
)

// SlaStatusesRecomputedPayload payload.
type SlaStatusesRecomputedPayload struct {
	Evaluated int `json:"evaluated"`
	Changed   int `json:"changed"`
}

// StatsRebuiltPayload payload. Periods carry the canonical bucket start of
// every rebuilt period so cache consumers can invalidate precisely.
type StatsRebuiltPayload struct {
	Granularity StatsGranularity `json:"granularity"`
	Periods     []time.Time      `json:"periods"`
	Rows        int              `json:"rows"`
}

// PaymentsCancelledPayload payload.
type PaymentsCancelledPayload struct {
	Count  int64     `json:"count"`
	Cutoff time.Time `json:"cutoff"`
}

// StockRepairedPayload payload.
type StockRepairedPayload struct {
	VariantsFlipped int64 `json:"variants_flipped"`
	ProductsFlipped int64 `json:"products_flipped"`
}

// AssetsExpiredPayload payload.
type AssetsExpiredPayload struct {
	Keys     int64 `json:"keys"`
	Accounts int64 `json:"accounts"`
}
