package repository

import (
	"context"
	"fmt"

	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/repository/dao"
)

type LuckyNumberDAO interface {
	ListByDocumento(ctx context.Context, documento string) ([]dao.LuckyNumber, error)
	ListByDocumentos(ctx context.Context, documentos []string) ([]dao.LuckyNumber, error)
	CountBelow(ctx context.Context, maxNumber int) (int64, error)
	CountParticipants(ctx context.Context) (int64, error)
}

type LuckyNumberRepository struct {
	dao LuckyNumberDAO
}

func NewLuckyNumberRepository(dao LuckyNumberDAO) *LuckyNumberRepository {
	return &LuckyNumberRepository{
		dao: dao,
	}
}

func (r *LuckyNumberRepository) ListByDocumento(ctx context.Context, documento string) ([]domain.LuckyNumber, error) {
	found, err := r.dao.ListByDocumento(ctx, documento)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByDocumento -> %w", err)
	}

	numbers := make([]domain.LuckyNumber, len(found))
	for i, n := range found {
		numbers[i] = luckyNumberDaoToDomain(n)
	}

	return numbers, nil
}

// ListByDocumentos groups the numbers of several participants by documento.
func (r *LuckyNumberRepository) ListByDocumentos(ctx context.Context, documentos []string) (map[string][]domain.LuckyNumber, error) {
	found, err := r.dao.ListByDocumentos(ctx, documentos)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByDocumentos -> %w", err)
	}

	grouped := make(map[string][]domain.LuckyNumber, len(documentos))
	for _, n := range found {
		grouped[n.Documento] = append(grouped[n.Documento], luckyNumberDaoToDomain(n))
	}

	return grouped, nil
}

func (r *LuckyNumberRepository) CountIssued(ctx context.Context, maxNumber int) (int64, error) {
	count, err := r.dao.CountBelow(ctx, maxNumber)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountBelow -> %w", err)
	}

	return count, nil
}

func (r *LuckyNumberRepository) CountParticipants(ctx context.Context) (int64, error) {
	count, err := r.dao.CountParticipants(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountParticipants -> %w", err)
	}

	return count, nil
}

func luckyNumberDomainToDao(n domain.LuckyNumber) dao.LuckyNumber {
	return dao.LuckyNumber{
		Numero:    n.Numero,
		Documento: n.Documento,
		Lote:      n.Lote,
		Obs:       n.Obs,
	}
}

func luckyNumberDaoToDomain(n dao.LuckyNumber) domain.LuckyNumber {
	return domain.LuckyNumber{
		Numero:    n.Numero,
		Documento: n.Documento,
		Lote:      n.Lote,
		Obs:       n.Obs,
		CreatedAt: n.CreatedAt,
	}
}
