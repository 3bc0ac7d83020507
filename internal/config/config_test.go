package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "commerce-maintenance-worker", cfg.App.Name)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.SlaInterval)
	assert.Equal(t, 30*time.Minute, cfg.Scheduler.SlaWarningWindow)
	assert.Equal(t, time.Minute, cfg.Maintenance.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Maintenance.PendingPaymentTimeout)
	assert.Equal(t, 7, cfg.Stats.DailyWindowDays)
	assert.Equal(t, 4, cfg.Stats.WeeklyWindowWeeks)
	assert.Equal(t, 6, cfg.Stats.MonthlyWindowMonths)
	assert.False(t, cfg.Stats.BackfillOnStart)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JOB_SLA_INTERVAL", "90s")
	t.Setenv("PENDING_PAYMENT_TIMEOUT", "10m")
	t.Setenv("STATS_DAILY_WINDOW_DAYS", "14")
	t.Setenv("STATS_BACKFILL_ON_START", "true")
	t.Setenv("OPS_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Scheduler.SlaInterval)
	assert.Equal(t, 10*time.Minute, cfg.Maintenance.PendingPaymentTimeout)
	assert.Equal(t, 14, cfg.Stats.DailyWindowDays)
	assert.True(t, cfg.Stats.BackfillOnStart)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.OpsAddr())
}

func TestLoadRejectsNonPositiveWindows(t *testing.T) {
	t.Setenv("STATS_DAILY_WINDOW_DAYS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("MAINTENANCE_INTERVAL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Minute, cfg.Maintenance.Interval)
}
