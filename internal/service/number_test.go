package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zumnet/numeros-sorte/internal/config"
	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/pkg/luckynumber"
)

const testDocumento = "12345678901"

func newCampaignConf(policy string) *config.CampaignConfig {
	return &config.CampaignConfig{
		ParticipantPolicy:     policy,
		MaxConflictRetries:    3,
		MaxQuantityPerRequest: 1000,
	}
}

func newNumberService(conf *config.CampaignConfig, store *memAllocations) (*NumberService, *Metrics) {
	metrics := NewMetrics(prometheus.NewRegistry())
	generator := luckynumber.NewGenerator(luckynumber.NewSource(11))

	return NewNumberService(conf, store, store, generator, metrics), metrics
}

func TestNumberService_Generate_Strict(t *testing.T) {
	ctx := context.Background()

	t.Run("unregistered participant", func(t *testing.T) {
		store := newMemAllocations()
		svc, metrics := newNumberService(newCampaignConf(config.PolicyStrict), store)

		_, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 3})

		assert.ErrorIs(t, err, ErrParticipantNotRegistered)
		assert.Zero(t, store.issuedCount())
		assert.Empty(t, store.participants)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Allocations.WithLabelValues("participant_not_registered")))
	})

	t.Run("registered participant with default config", func(t *testing.T) {
		store := newMemAllocations()
		store.participants[testDocumento] = domain.Participant{Documento: testDocumento}
		svc, metrics := newNumberService(newCampaignConf(config.PolicyStrict), store)

		alloc, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 5, Obs: domain.ObsManualIssue})
		require.NoError(t, err)

		assert.Len(t, alloc.Numbers, 5)
		assert.True(t, sort.IntsAreSorted(alloc.Numbers))
		assert.NotEmpty(t, alloc.Lote)
		assert.False(t, alloc.Registered)
		for _, n := range alloc.Numbers {
			assert.GreaterOrEqual(t, n, 0)
			assert.Less(t, n, 100000)

			stored := store.numbers[n]
			assert.Equal(t, testDocumento, stored.Documento)
			assert.Equal(t, alloc.Lote, stored.Lote)
			require.NotNil(t, stored.Obs)
			assert.Equal(t, domain.ObsManualIssue, *stored.Obs)
		}
		assert.Equal(t, 5.0, testutil.ToFloat64(metrics.NumbersIssued))
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Allocations.WithLabelValues("ok")))
	})
}

func TestNumberService_Generate_AutoRegister(t *testing.T) {
	ctx := context.Background()
	store := newMemAllocations()
	svc, _ := newNumberService(newCampaignConf(config.PolicyAutoRegister), store)

	first, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 2})
	require.NoError(t, err)
	assert.True(t, first.Registered)
	assert.Contains(t, store.participants, testDocumento)

	second, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 2})
	require.NoError(t, err)
	assert.False(t, second.Registered)
	assert.NotEqual(t, first.Lote, second.Lote)

	numbers, err := svc.ListByDocumento(ctx, testDocumento)
	require.NoError(t, err)
	assert.Len(t, numbers, 4)
}

func TestNumberService_Generate_CapacityExhausted(t *testing.T) {
	ctx := context.Background()
	store := newMemAllocations()
	store.participants[testDocumento] = domain.Participant{Documento: testDocumento}
	for n := 0; n < 99999; n++ {
		store.numbers[n] = domain.LuckyNumber{Numero: n, Documento: "other"}
	}
	svc, _ := newNumberService(newCampaignConf(config.PolicyStrict), store)

	_, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 2})
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.Equal(t, 99999, store.issuedCount())

	alloc, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, []int{99999}, alloc.Numbers)
}

func TestNumberService_Generate_Configuration(t *testing.T) {
	ctx := context.Background()

	t.Run("uses configured series", func(t *testing.T) {
		store := newMemAllocations()
		store.config = &domain.CampaignConfig{SeriesNumericas: 2}
		store.participants[testDocumento] = domain.Participant{Documento: testDocumento}
		for n := 0; n < 100000; n++ {
			store.numbers[n] = domain.LuckyNumber{Numero: n}
		}
		svc, _ := newNumberService(newCampaignConf(config.PolicyStrict), store)

		alloc, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 10})
		require.NoError(t, err)
		for _, n := range alloc.Numbers {
			assert.GreaterOrEqual(t, n, 100000)
			assert.Less(t, n, 200000)
		}
	})

	t.Run("non positive series", func(t *testing.T) {
		store := newMemAllocations()
		store.config = &domain.CampaignConfig{SeriesNumericas: 0}
		store.participants[testDocumento] = domain.Participant{Documento: testDocumento}
		svc, _ := newNumberService(newCampaignConf(config.PolicyStrict), store)

		_, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 1})
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})

	t.Run("config read failure is not a default", func(t *testing.T) {
		store := newMemAllocations()
		store.configErr = errors.New("connection reset")
		store.participants[testDocumento] = domain.Participant{Documento: testDocumento}
		svc, metrics := newNumberService(newCampaignConf(config.PolicyStrict), store)

		_, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 1})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidConfiguration)
		assert.Zero(t, store.issuedCount())
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Allocations.WithLabelValues("internal_error")))
	})
}

func TestNumberService_Generate_InvalidArguments(t *testing.T) {
	store := newMemAllocations()
	svc, _ := newNumberService(newCampaignConf(config.PolicyAutoRegister), store)

	tests := []struct {
		name string
		req  GenerateRequest
	}{
		{name: "zero quantity", req: GenerateRequest{Documento: testDocumento, Quantity: 0}},
		{name: "negative quantity", req: GenerateRequest{Documento: testDocumento, Quantity: -4}},
		{name: "above request limit", req: GenerateRequest{Documento: testDocumento, Quantity: 1001}},
		{name: "missing documento", req: GenerateRequest{Quantity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
	assert.Zero(t, store.issuedCount())
}

func TestNumberService_Generate_InsertConflicts(t *testing.T) {
	ctx := context.Background()

	t.Run("redraws only the lost numbers", func(t *testing.T) {
		store := newMemAllocations()
		store.participants[testDocumento] = domain.Participant{Documento: testDocumento}
		stolen := 0
		store.steal = func(int) bool {
			if stolen < 2 {
				stolen++
				return true
			}
			return false
		}
		svc, metrics := newNumberService(newCampaignConf(config.PolicyStrict), store)

		alloc, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 5})
		require.NoError(t, err)

		assert.Len(t, alloc.Numbers, 5)
		assert.True(t, sort.IntsAreSorted(alloc.Numbers))
		for _, n := range alloc.Numbers {
			assert.Equal(t, testDocumento, store.numbers[n].Documento)
		}
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.InsertConflicts))
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		store := newMemAllocations()
		store.participants[testDocumento] = domain.Participant{Documento: testDocumento}
		store.steal = func(int) bool { return true }
		svc, _ := newNumberService(newCampaignConf(config.PolicyStrict), store)

		_, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 3})
		assert.ErrorIs(t, err, ErrAllocationConflict)

		numbers, err := svc.ListByDocumento(ctx, testDocumento)
		require.NoError(t, err)
		assert.Empty(t, numbers)
	})

	t.Run("retries aborted transactions", func(t *testing.T) {
		store := newMemAllocations()
		store.participants[testDocumento] = domain.Participant{Documento: testDocumento}
		store.aborts = 2
		svc, _ := newNumberService(newCampaignConf(config.PolicyStrict), store)

		alloc, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 3})
		require.NoError(t, err)
		assert.Len(t, alloc.Numbers, 3)
	})

	t.Run("too many aborted transactions", func(t *testing.T) {
		store := newMemAllocations()
		store.participants[testDocumento] = domain.Participant{Documento: testDocumento}
		store.aborts = 10
		svc, _ := newNumberService(newCampaignConf(config.PolicyStrict), store)

		_, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: 3})
		assert.ErrorIs(t, err, ErrAllocationConflict)
		assert.Zero(t, store.issuedCount())
	})
}

func TestNumberService_Generate_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store := newMemAllocations()
	conf := newCampaignConf(config.PolicyAutoRegister)
	conf.MaxQuantityPerRequest = 100
	store.config = &domain.CampaignConfig{SeriesNumericas: 1}
	svc, _ := newNumberService(conf, store)

	const workers = 20
	const perWorker = 50

	var wg sync.WaitGroup
	results := make([][]int, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			alloc, err := svc.Generate(ctx, GenerateRequest{Documento: testDocumento, Quantity: perWorker})
			results[i], errs[i] = alloc.Numbers, err
		}(i)
	}
	wg.Wait()

	seen := make(map[int]struct{}, workers*perWorker)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i], perWorker)
		for _, n := range results[i] {
			_, dup := seen[n]
			require.False(t, dup, "number %d issued twice", n)
			seen[n] = struct{}{}
		}
	}
	assert.Equal(t, workers*perWorker, store.issuedCount())
}
