package repository

import (
	"context"
	"fmt"

	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/repository/dao"
)

var ErrTransactionAborted = dao.ErrTransactionAborted

// AllocationStore is the view of storage available inside one allocation
// transaction. Every call runs on the same transaction.
type AllocationStore interface {
	FindParticipant(ctx context.Context, documento string) (domain.Participant, error)
	// RegisterParticipant creates a bare participant unless one exists and
	// reports whether it did.
	RegisterParticipant(ctx context.Context, documento string) (bool, error)
	GetCampaignConfig(ctx context.Context) (domain.CampaignConfig, error)
	IssuedNumbers(ctx context.Context) (map[int]struct{}, error)
	// InsertNumber reports false when the number was issued concurrently.
	InsertNumber(ctx context.Context, number domain.LuckyNumber) (bool, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(tx dao.TxDAOs) error) error
}

type AllocationRepository struct {
	transactor Transactor
}

func NewAllocationRepository(transactor Transactor) *AllocationRepository {
	return &AllocationRepository{
		transactor: transactor,
	}
}

// WithinTransaction commits what fn stored when it returns nil and discards
// all of it otherwise.
func (r *AllocationRepository) WithinTransaction(ctx context.Context, fn func(store AllocationStore) error) error {
	return r.transactor.WithinTransaction(ctx, func(tx dao.TxDAOs) error {
		return fn(&allocationStore{tx: tx})
	})
}

type allocationStore struct {
	tx dao.TxDAOs
}

func (s *allocationStore) FindParticipant(ctx context.Context, documento string) (domain.Participant, error) {
	found, err := s.tx.Participants.FindByDocumento(ctx, documento)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.tx.Participants.FindByDocumento -> %w", err)
	}

	return participantDaoToDomain(found), nil
}

func (s *allocationStore) RegisterParticipant(ctx context.Context, documento string) (bool, error) {
	created, err := s.tx.Participants.InsertIfAbsent(ctx, documento)
	if err != nil {
		return false, fmt.Errorf("s.tx.Participants.InsertIfAbsent -> %w", err)
	}

	return created, nil
}

func (s *allocationStore) GetCampaignConfig(ctx context.Context) (domain.CampaignConfig, error) {
	found, err := s.tx.Campaign.Get(ctx)
	if err != nil {
		return domain.CampaignConfig{}, fmt.Errorf("s.tx.Campaign.Get -> %w", err)
	}

	return campaignDaoToDomain(found), nil
}

func (s *allocationStore) IssuedNumbers(ctx context.Context) (map[int]struct{}, error) {
	numeros, err := s.tx.Numbers.ListNumeros(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.tx.Numbers.ListNumeros -> %w", err)
	}

	issued := make(map[int]struct{}, len(numeros))
	for _, n := range numeros {
		issued[n] = struct{}{}
	}

	return issued, nil
}

func (s *allocationStore) InsertNumber(ctx context.Context, number domain.LuckyNumber) (bool, error) {
	inserted, err := s.tx.Numbers.InsertIfFree(ctx, luckyNumberDomainToDao(number))
	if err != nil {
		return false, fmt.Errorf("s.tx.Numbers.InsertIfFree -> %w", err)
	}

	return inserted, nil
}
