package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zumnet/numeros-sorte/internal/config"
	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/pkg/luckynumber"
	"github.com/zumnet/numeros-sorte/internal/repository"
)

var (
	ErrInvalidArgument          = luckynumber.ErrInvalidArgument
	ErrInsufficientCapacity     = luckynumber.ErrInsufficientCapacity
	ErrParticipantNotRegistered = errors.New("participant is not registered")
	ErrAllocationConflict       = errors.New("lucky numbers kept colliding with concurrent allocations")
)

type AllocationRepository interface {
	WithinTransaction(ctx context.Context, fn func(store repository.AllocationStore) error) error
}

type NumberLister interface {
	ListByDocumento(ctx context.Context, documento string) ([]domain.LuckyNumber, error)
}

type GenerateRequest struct {
	Documento string
	Quantity  int
	// Obs is stored on every issued row. Empty means no observation.
	Obs string
}

type NumberService struct {
	conf        *config.CampaignConfig
	allocations AllocationRepository
	numbers     NumberLister
	generator   *luckynumber.Generator
	metrics     *Metrics
}

func NewNumberService(
	conf *config.CampaignConfig,
	allocations AllocationRepository,
	numbers NumberLister,
	generator *luckynumber.Generator,
	metrics *Metrics,
) *NumberService {
	return &NumberService{
		conf:        conf,
		allocations: allocations,
		numbers:     numbers,
		generator:   generator,
		metrics:     metrics,
	}
}

// Generate issues req.Quantity new lucky numbers to req.Documento. Either all
// of them are stored or none is.
func (s *NumberService) Generate(ctx context.Context, req GenerateRequest) (domain.Allocation, error) {
	if req.Documento == "" {
		return domain.Allocation{}, fmt.Errorf("%w: documento is required", ErrInvalidArgument)
	}
	if req.Quantity <= 0 || req.Quantity > s.conf.MaxQuantityPerRequest {
		return domain.Allocation{}, fmt.Errorf("%w: quantidade must be between 1 and %d",
			ErrInvalidArgument, s.conf.MaxQuantityPerRequest)
	}

	start := time.Now()

	var (
		alloc domain.Allocation
		err   error
	)
	for attempt := 0; ; attempt++ {
		alloc, err = s.allocate(ctx, req)
		if !errors.Is(err, repository.ErrTransactionAborted) {
			break
		}
		if attempt >= s.conf.MaxConflictRetries {
			err = fmt.Errorf("%w: %w", ErrAllocationConflict, err)
			break
		}

		zap.L().Warn("allocation transaction aborted, retrying",
			zap.String("documento", req.Documento), zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.metrics.AllocationDuration.Observe(time.Since(start).Seconds())
	s.metrics.Allocations.WithLabelValues(allocationOutcome(err)).Inc()
	if err != nil {
		return domain.Allocation{}, err
	}

	s.metrics.NumbersIssued.Add(float64(len(alloc.Numbers)))
	zap.L().Info("lucky numbers issued",
		zap.String("documento", alloc.Documento),
		zap.String("lote", alloc.Lote),
		zap.Int("quantidade", len(alloc.Numbers)),
		zap.Bool("registered", alloc.Registered),
	)

	return alloc, nil
}

func (s *NumberService) allocate(ctx context.Context, req GenerateRequest) (domain.Allocation, error) {
	alloc := domain.Allocation{
		Documento: req.Documento,
		Lote:      uuid.NewString(),
	}

	err := s.allocations.WithinTransaction(ctx, func(store repository.AllocationStore) error {
		registered, err := s.admit(ctx, store, req.Documento)
		if err != nil {
			return err
		}

		campaign, err := resolveCampaign(ctx, store)
		if err != nil {
			return err
		}

		existing, err := store.IssuedNumbers(ctx)
		if err != nil {
			return fmt.Errorf("store.IssuedNumbers -> %w", err)
		}

		numbers, err := s.drawAndInsert(ctx, store, alloc.Lote, req, campaign.MaxNumber, existing)
		if err != nil {
			return err
		}

		alloc.Numbers = numbers
		alloc.Registered = registered

		return nil
	})
	if err != nil {
		return domain.Allocation{}, err
	}

	return alloc, nil
}

// admit applies the participant policy and reports whether documento was
// registered by this call.
func (s *NumberService) admit(ctx context.Context, store repository.AllocationStore, documento string) (bool, error) {
	if s.conf.AutoRegister() {
		registered, err := store.RegisterParticipant(ctx, documento)
		if err != nil {
			return false, fmt.Errorf("store.RegisterParticipant -> %w", err)
		}

		return registered, nil
	}

	if _, err := store.FindParticipant(ctx, documento); err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return false, ErrParticipantNotRegistered
		}

		return false, fmt.Errorf("store.FindParticipant -> %w", err)
	}

	return false, nil
}

// drawAndInsert stores req.Quantity fresh numbers. Numbers taken by a
// concurrent transaction between the read and the insert are excluded and
// only that many are drawn again, at most MaxConflictRetries times.
func (s *NumberService) drawAndInsert(
	ctx context.Context,
	store repository.AllocationStore,
	lote string,
	req GenerateRequest,
	maxNumber int,
	existing map[int]struct{},
) ([]int, error) {
	var obs *string
	if req.Obs != "" {
		obs = &req.Obs
	}

	issued := make([]int, 0, req.Quantity)
	need := req.Quantity
	for round := 0; ; round++ {
		candidates, err := s.generator.Generate(need, maxNumber, existing)
		if err != nil {
			return nil, fmt.Errorf("s.generator.Generate -> %w", err)
		}

		lost := 0
		for _, n := range candidates {
			inserted, err := store.InsertNumber(ctx, domain.LuckyNumber{
				Numero:    n,
				Documento: req.Documento,
				Lote:      lote,
				Obs:       obs,
			})
			if err != nil {
				return nil, fmt.Errorf("store.InsertNumber -> %w", err)
			}

			existing[n] = struct{}{}
			if inserted {
				issued = append(issued, n)
			} else {
				lost++
			}
		}

		if lost == 0 {
			break
		}

		s.metrics.InsertConflicts.Add(float64(lost))
		if round >= s.conf.MaxConflictRetries {
			return nil, fmt.Errorf("%w: %d numbers still taken after %d retries", ErrAllocationConflict, lost, round)
		}
		need = lost
	}

	sort.Ints(issued)

	return issued, nil
}

func (s *NumberService) ListByDocumento(ctx context.Context, documento string) ([]domain.LuckyNumber, error) {
	numbers, err := s.numbers.ListByDocumento(ctx, documento)
	if err != nil {
		return nil, fmt.Errorf("s.numbers.ListByDocumento -> %w", err)
	}

	return numbers, nil
}

func allocationOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrParticipantNotRegistered):
		return "participant_not_registered"
	case errors.Is(err, ErrInsufficientCapacity):
		return "insufficient_capacity"
	case errors.Is(err, ErrAllocationConflict):
		return "allocation_conflict"
	case errors.Is(err, ErrInvalidConfiguration):
		return "invalid_configuration"
	default:
		return "internal_error"
	}
}
