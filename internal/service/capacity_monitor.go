package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/zumnet/numeros-sorte/internal/domain"
)

type StatsReporter interface {
	Stats(ctx context.Context) (domain.CampaignStats, error)
}

// CapacityMonitor periodically exports how much of the number range is used
// and warns once usage crosses the configured ratio.
type CapacityMonitor struct {
	stats     StatsReporter
	metrics   *Metrics
	warnRatio float64
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewCapacityMonitor(stats StatsReporter, metrics *Metrics, interval time.Duration, warnRatio float64) (*CapacityMonitor, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	m := &CapacityMonitor{
		stats:     stats,
		metrics:   metrics,
		warnRatio: warnRatio,
		interval:  interval,
		scheduler: scheduler,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(m.Check),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("scheduler.NewJob -> %w", err)
	}

	return m, nil
}

func (m *CapacityMonitor) Start() {
	m.scheduler.Start()
}

func (m *CapacityMonitor) Stop() error {
	return m.scheduler.Shutdown()
}

// Check reads the current usage once and updates the capacity gauges.
func (m *CapacityMonitor) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), m.interval)
	defer cancel()

	stats, err := m.stats.Stats(ctx)
	if err != nil {
		zap.L().Error("capacity check failed", zap.Error(err))
		return
	}

	m.metrics.CapacityMax.Set(float64(stats.MaxNumber))
	m.metrics.CapacityIssued.Set(float64(stats.Issued))
	m.metrics.CapacityUsage.Set(stats.UsageRatio)

	if m.warnRatio > 0 && stats.UsageRatio >= m.warnRatio {
		zap.L().Warn("campaign number range is running out",
			zap.Int("max_number", stats.MaxNumber),
			zap.Int64("issued", stats.Issued),
			zap.Int64("free", stats.Free),
			zap.Float64("usage_ratio", stats.UsageRatio),
		)
	}
}
