package service

import (
	"context"
	"fmt"

	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/repository"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var ErrParticipantNotFound = repository.ErrParticipantNotFound

type ParticipantRepository interface {
	FindByDocumento(ctx context.Context, documento string) (domain.Participant, error)
	Search(ctx context.Context, term string, limit, offset int) ([]domain.Participant, int64, error)
}

type GroupedNumberLister interface {
	ListByDocumento(ctx context.Context, documento string) ([]domain.LuckyNumber, error)
	ListByDocumentos(ctx context.Context, documentos []string) (map[string][]domain.LuckyNumber, error)
}

type ParticipantService struct {
	repo    ParticipantRepository
	numbers GroupedNumberLister
}

func NewParticipantService(repo ParticipantRepository, numbers GroupedNumberLister) *ParticipantService {
	return &ParticipantService{
		repo:    repo,
		numbers: numbers,
	}
}

// Search pages through participants, newest registration first, each with
// the numbers issued to it.
func (s *ParticipantService) Search(ctx context.Context, term string, limit, offset int) (domain.ParticipantPage, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	participants, total, err := s.repo.Search(ctx, term, limit, offset)
	if err != nil {
		return domain.ParticipantPage{}, fmt.Errorf("s.repo.Search -> %w", err)
	}

	documentos := make([]string, len(participants))
	for i, p := range participants {
		documentos[i] = p.Documento
	}

	grouped, err := s.numbers.ListByDocumentos(ctx, documentos)
	if err != nil {
		return domain.ParticipantPage{}, fmt.Errorf("s.numbers.ListByDocumentos -> %w", err)
	}

	page := domain.ParticipantPage{
		Participants: make([]domain.ParticipantNumbers, len(participants)),
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}
	for i, p := range participants {
		numeros := grouped[p.Documento]
		if numeros == nil {
			numeros = []domain.LuckyNumber{}
		}
		page.Participants[i] = domain.ParticipantNumbers{Participant: p, Numeros: numeros}
	}

	return page, nil
}

func (s *ParticipantService) GetWithNumbers(ctx context.Context, documento string) (domain.ParticipantNumbers, error) {
	participant, err := s.repo.FindByDocumento(ctx, documento)
	if err != nil {
		return domain.ParticipantNumbers{}, fmt.Errorf("s.repo.FindByDocumento -> %w", err)
	}

	numeros, err := s.numbers.ListByDocumento(ctx, documento)
	if err != nil {
		return domain.ParticipantNumbers{}, fmt.Errorf("s.numbers.ListByDocumento -> %w", err)
	}

	return domain.ParticipantNumbers{Participant: participant, Numeros: numeros}, nil
}
