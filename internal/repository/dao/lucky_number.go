package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LuckyNumber struct {
	ID uint `gorm:"primaryKey"`

	Numero    int    `gorm:"uniqueIndex:uni_numeros_sorte_numero;not null"`
	Documento string `gorm:"index;not null"`
	Lote      string `gorm:"type:varchar(36);index;not null"`
	Obs       *string

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (LuckyNumber) TableName() string {
	return "numeros_sorte"
}

type LuckyNumberDAO struct {
	db *gorm.DB
}

func NewLuckyNumberDAO(db *gorm.DB) *LuckyNumberDAO {
	return &LuckyNumberDAO{
		db: db,
	}
}

// ListNumeros returns every issued number across all series.
func (d *LuckyNumberDAO) ListNumeros(ctx context.Context) ([]int, error) {
	var numeros []int

	err := d.db.WithContext(ctx).Model(&LuckyNumber{}).Pluck("numero", &numeros).Error
	if err != nil {
		return nil, err
	}

	return numeros, nil
}

// InsertIfFree stores number unless its numero is already issued, in which
// case it reports false and leaves the table untouched.
func (d *LuckyNumberDAO) InsertIfFree(ctx context.Context, number LuckyNumber) (bool, error) {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "numero"}}, DoNothing: true}).
		Create(&number)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_numeros_sorte_numero") {
			return false, nil
		}

		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (d *LuckyNumberDAO) ListByDocumento(ctx context.Context, documento string) ([]LuckyNumber, error) {
	var numbers []LuckyNumber

	err := d.db.WithContext(ctx).
		Where("documento = ?", documento).
		Order("numero ASC").
		Find(&numbers).Error
	if err != nil {
		return nil, err
	}

	return numbers, nil
}

func (d *LuckyNumberDAO) ListByDocumentos(ctx context.Context, documentos []string) ([]LuckyNumber, error) {
	if len(documentos) == 0 {
		return nil, nil
	}

	var numbers []LuckyNumber

	err := d.db.WithContext(ctx).
		Where("documento IN ?", documentos).
		Order("documento ASC").
		Order("numero ASC").
		Find(&numbers).Error
	if err != nil {
		return nil, err
	}

	return numbers, nil
}

// CountBelow counts issued numbers inside [0, maxNumber).
func (d *LuckyNumberDAO) CountBelow(ctx context.Context, maxNumber int) (int64, error) {
	var count int64

	err := d.db.WithContext(ctx).Model(&LuckyNumber{}).
		Where("numero >= 0 AND numero < ?", maxNumber).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (d *LuckyNumberDAO) CountParticipants(ctx context.Context) (int64, error) {
	var count int64

	err := d.db.WithContext(ctx).Model(&LuckyNumber{}).
		Distinct("documento").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
