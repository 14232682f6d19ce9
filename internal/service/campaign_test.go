package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zumnet/numeros-sorte/internal/domain"
)

func TestCampaignService_ResolveMaxNumber(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		repo    *memCampaign
		want    int
		wantErr error
	}{
		{name: "no row defaults to one series", repo: &memCampaign{}, want: 100000},
		{name: "three series", repo: &memCampaign{config: &domain.CampaignConfig{SeriesNumericas: 3}}, want: 300000},
		{name: "zero series", repo: &memCampaign{config: &domain.CampaignConfig{SeriesNumericas: 0}}, wantErr: ErrInvalidConfiguration},
		{name: "negative series", repo: &memCampaign{config: &domain.CampaignConfig{SeriesNumericas: -2}}, wantErr: ErrInvalidConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCampaignService(tt.repo, tt.repo)

			got, err := svc.ResolveMaxNumber(ctx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCampaignService_GetConfig(t *testing.T) {
	ctx := context.Background()

	conf, err := NewCampaignService(&memCampaign{}, &memCampaign{}).GetConfig(ctx)
	require.NoError(t, err)
	assert.True(t, conf.Default)
	assert.Equal(t, 1, conf.SeriesNumericas)

	failing := &memCampaign{err: errors.New("boom")}
	_, err = NewCampaignService(failing, failing).GetConfig(ctx)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCampaignService_UpdateConfig(t *testing.T) {
	ctx := context.Background()
	repo := &memCampaign{}
	svc := NewCampaignService(repo, repo)

	saved, err := svc.UpdateConfig(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.SeriesNumericas)
	assert.Equal(t, 400000, saved.MaxNumber)

	maxNumber, err := svc.ResolveMaxNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 400000, maxNumber)

	_, err = svc.UpdateConfig(ctx, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = svc.UpdateConfig(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCampaignService_Stats(t *testing.T) {
	repo := &memCampaign{config: &domain.CampaignConfig{SeriesNumericas: 2}, issued: 50000, holders: 12}
	svc := NewCampaignService(repo, repo)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 200000, stats.MaxNumber)
	assert.EqualValues(t, 50000, stats.Issued)
	assert.EqualValues(t, 150000, stats.Free)
	assert.InDelta(t, 0.25, stats.UsageRatio, 1e-9)
	assert.EqualValues(t, 12, stats.Participants)
}

func TestCapacityMonitor_Check(t *testing.T) {
	repo := &memCampaign{issued: 95000}
	metrics := NewMetrics(prometheus.NewRegistry())

	monitor, err := NewCapacityMonitor(NewCampaignService(repo, repo), metrics, time.Hour, 0.9)
	require.NoError(t, err)
	t.Cleanup(func() { _ = monitor.Stop() })

	monitor.Check()

	assert.Equal(t, 100000.0, testutil.ToFloat64(metrics.CapacityMax))
	assert.Equal(t, 95000.0, testutil.ToFloat64(metrics.CapacityIssued))
	assert.InDelta(t, 0.95, testutil.ToFloat64(metrics.CapacityUsage), 1e-9)
}
