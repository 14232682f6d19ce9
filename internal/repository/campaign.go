package repository

import (
	"context"
	"fmt"

	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/repository/dao"
)

var ErrCampaignConfigNotFound = dao.ErrCampaignConfigNotFound

type CampaignDAO interface {
	Get(ctx context.Context) (dao.CampaignConfig, error)
	Upsert(ctx context.Context, series int) (dao.CampaignConfig, error)
}

type CampaignRepository struct {
	dao CampaignDAO
}

func NewCampaignRepository(dao CampaignDAO) *CampaignRepository {
	return &CampaignRepository{
		dao: dao,
	}
}

// GetCampaignConfig returns ErrCampaignConfigNotFound while no row is stored.
func (r *CampaignRepository) GetCampaignConfig(ctx context.Context) (domain.CampaignConfig, error) {
	found, err := r.dao.Get(ctx)
	if err != nil {
		return domain.CampaignConfig{}, fmt.Errorf("r.dao.Get -> %w", err)
	}

	return campaignDaoToDomain(found), nil
}

func (r *CampaignRepository) SaveCampaignConfig(ctx context.Context, series int) (domain.CampaignConfig, error) {
	saved, err := r.dao.Upsert(ctx, series)
	if err != nil {
		return domain.CampaignConfig{}, fmt.Errorf("r.dao.Upsert -> %w", err)
	}

	return campaignDaoToDomain(saved), nil
}

func campaignDaoToDomain(c dao.CampaignConfig) domain.CampaignConfig {
	return domain.CampaignConfig{
		SeriesNumericas: c.SeriesNumericas,
		UpdatedAt:       c.UpdatedAt,
	}
}
