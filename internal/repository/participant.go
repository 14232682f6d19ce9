package repository

import (
	"context"
	"fmt"

	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/repository/dao"
)

var (
	ErrDocumentExists      = dao.ErrDocumentExists
	ErrParticipantNotFound = dao.ErrParticipantNotFound
)

type ParticipantDAO interface {
	Insert(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	FindByDocumento(ctx context.Context, documento string) (dao.Participant, error)
	FindByDocumentoAndEmail(ctx context.Context, documento, email string) (dao.Participant, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
	Search(ctx context.Context, term string, limit, offset int) ([]dao.Participant, int64, error)
}

type ParticipantRepository struct {
	dao ParticipantDAO
}

func NewParticipantRepository(dao ParticipantDAO) *ParticipantRepository {
	return &ParticipantRepository{
		dao: dao,
	}
}

func (r *ParticipantRepository) Create(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	created, err := r.dao.Insert(ctx, participantDomainToDao(participant))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return participantDaoToDomain(created), nil
}

func (r *ParticipantRepository) FindByDocumento(ctx context.Context, documento string) (domain.Participant, error) {
	found, err := r.dao.FindByDocumento(ctx, documento)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindByDocumento -> %w", err)
	}

	return participantDaoToDomain(found), nil
}

func (r *ParticipantRepository) FindByDocumentoAndEmail(ctx context.Context, documento, email string) (domain.Participant, error) {
	found, err := r.dao.FindByDocumentoAndEmail(ctx, documento, email)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindByDocumentoAndEmail -> %w", err)
	}

	return participantDaoToDomain(found), nil
}

func (r *ParticipantRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	if err := r.dao.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("r.dao.UpdatePassword -> %w", err)
	}

	return nil
}

func (r *ParticipantRepository) Search(ctx context.Context, term string, limit, offset int) ([]domain.Participant, int64, error) {
	found, total, err := r.dao.Search(ctx, term, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.Search -> %w", err)
	}

	participants := make([]domain.Participant, len(found))
	for i, p := range found {
		participants[i] = participantDaoToDomain(p)
	}

	return participants, total, nil
}

func participantDomainToDao(p domain.Participant) dao.Participant {
	return dao.Participant{
		ID:          p.ID,
		Documento:   p.Documento,
		Nome:        p.Nome,
		Genero:      p.Genero,
		Email:       p.Email,
		Telefone:    p.Telefone,
		Senha:       p.Senha,
		Rua:         p.Address.Rua,
		Numero:      p.Address.Numero,
		Bairro:      p.Address.Bairro,
		Complemento: p.Address.Complemento,
		CEP:         p.Address.CEP,
		Cidade:      p.Address.Cidade,
		UF:          p.Address.UF,
	}
}

func participantDaoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:        p.ID,
		Documento: p.Documento,
		Nome:      p.Nome,
		Genero:    p.Genero,
		Email:     p.Email,
		Telefone:  p.Telefone,
		Senha:     p.Senha,
		Address: domain.Address{
			Rua:         p.Rua,
			Numero:      p.Numero,
			Bairro:      p.Bairro,
			Complemento: p.Complemento,
			CEP:         p.CEP,
			Cidade:      p.Cidade,
			UF:          p.UF,
		},
		DataCadastro: p.DataCadastro,
	}
}
