package service

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/pkg/luckynumber"
	"github.com/zumnet/numeros-sorte/internal/repository"
)

var ErrInvalidConfiguration = errors.New("campaign configuration is invalid")

type campaignConfigReader interface {
	GetCampaignConfig(ctx context.Context) (domain.CampaignConfig, error)
}

type CampaignRepository interface {
	campaignConfigReader
	SaveCampaignConfig(ctx context.Context, series int) (domain.CampaignConfig, error)
}

type IssuedCounter interface {
	CountIssued(ctx context.Context, maxNumber int) (int64, error)
	CountParticipants(ctx context.Context) (int64, error)
}

type CampaignService struct {
	repo    CampaignRepository
	counter IssuedCounter
}

func NewCampaignService(repo CampaignRepository, counter IssuedCounter) *CampaignService {
	return &CampaignService{
		repo:    repo,
		counter: counter,
	}
}

// GetConfig returns the stored configuration, or the single series default
// when nothing was saved yet.
func (s *CampaignService) GetConfig(ctx context.Context) (domain.CampaignConfig, error) {
	return resolveCampaign(ctx, s.repo)
}

// ResolveMaxNumber returns the exclusive upper bound of the number range.
func (s *CampaignService) ResolveMaxNumber(ctx context.Context) (int, error) {
	conf, err := resolveCampaign(ctx, s.repo)
	if err != nil {
		return 0, err
	}

	return conf.MaxNumber, nil
}

func (s *CampaignService) UpdateConfig(ctx context.Context, series int) (domain.CampaignConfig, error) {
	if err := validation.Validate(series, validation.Required, validation.Min(1)); err != nil {
		return domain.CampaignConfig{}, fmt.Errorf("%w: series_numericas %v", ErrInvalidArgument, err)
	}

	saved, err := s.repo.SaveCampaignConfig(ctx, series)
	if err != nil {
		return domain.CampaignConfig{}, fmt.Errorf("s.repo.SaveCampaignConfig -> %w", err)
	}
	saved.MaxNumber = luckynumber.MaxNumberForSeries(saved.SeriesNumericas)

	return saved, nil
}

func (s *CampaignService) Stats(ctx context.Context) (domain.CampaignStats, error) {
	conf, err := resolveCampaign(ctx, s.repo)
	if err != nil {
		return domain.CampaignStats{}, err
	}

	issued, err := s.counter.CountIssued(ctx, conf.MaxNumber)
	if err != nil {
		return domain.CampaignStats{}, fmt.Errorf("s.counter.CountIssued -> %w", err)
	}

	participants, err := s.counter.CountParticipants(ctx)
	if err != nil {
		return domain.CampaignStats{}, fmt.Errorf("s.counter.CountParticipants -> %w", err)
	}

	return domain.CampaignStats{
		SeriesNumericas: conf.SeriesNumericas,
		MaxNumber:       conf.MaxNumber,
		Issued:          issued,
		Free:            int64(conf.MaxNumber) - issued,
		UsageRatio:      float64(issued) / float64(conf.MaxNumber),
		Participants:    participants,
	}, nil
}

func resolveCampaign(ctx context.Context, r campaignConfigReader) (domain.CampaignConfig, error) {
	conf, err := r.GetCampaignConfig(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrCampaignConfigNotFound) {
			return domain.CampaignConfig{}, fmt.Errorf("r.GetCampaignConfig -> %w", err)
		}

		conf = domain.CampaignConfig{
			SeriesNumericas: domain.DefaultSeriesNumericas,
			Default:         true,
		}
	}

	if conf.SeriesNumericas <= 0 {
		return domain.CampaignConfig{}, fmt.Errorf("%w: series_numericas is %d", ErrInvalidConfiguration, conf.SeriesNumericas)
	}
	conf.MaxNumber = luckynumber.MaxNumberForSeries(conf.SeriesNumericas)

	return conf, nil
}
