package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CampaignConfigID is the primary key of the single configuration row.
const CampaignConfigID = 1

var ErrCampaignConfigNotFound = errors.New("campaign config not found")

type CampaignConfig struct {
	ID              uint `gorm:"primaryKey;autoIncrement:false"`
	SeriesNumericas int  `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CampaignConfig) TableName() string {
	return "configuracao_campanha"
}

type CampaignDAO struct {
	db *gorm.DB
}

func NewCampaignDAO(db *gorm.DB) *CampaignDAO {
	return &CampaignDAO{
		db: db,
	}
}

func (d *CampaignDAO) Get(ctx context.Context) (CampaignConfig, error) {
	var conf CampaignConfig

	result := d.db.WithContext(ctx).First(&conf, CampaignConfigID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return CampaignConfig{}, ErrCampaignConfigNotFound
		}

		return CampaignConfig{}, result.Error
	}

	return conf, nil
}

// Upsert creates the configuration row or overwrites its series count.
func (d *CampaignDAO) Upsert(ctx context.Context, series int) (CampaignConfig, error) {
	conf := CampaignConfig{
		ID:              CampaignConfigID,
		SeriesNumericas: series,
	}

	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"series_numericas", "updated_at"}),
		}).
		Create(&conf).Error
	if err != nil {
		return CampaignConfig{}, err
	}

	return d.Get(ctx)
}
