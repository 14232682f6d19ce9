package dao

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrTransactionAborted marks a transaction the database rolled back because
// it raced another one. Running it again from scratch is safe.
var ErrTransactionAborted = errors.New("transaction aborted by a concurrent writer")

// TxDAOs are the DAOs bound to one open transaction.
type TxDAOs struct {
	Participants *ParticipantDAO
	Numbers      *LuckyNumberDAO
	Campaign     *CampaignDAO
}

type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{
		db: db,
	}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(tx TxDAOs) error) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxDAOs{
			Participants: NewParticipantDAO(tx),
			Numbers:      NewLuckyNumberDAO(tx),
			Campaign:     NewCampaignDAO(tx),
		})
	})
	if err != nil && isRetryable(err) {
		return errors.Join(ErrTransactionAborted, err)
	}

	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgerrcode.DeadlockDetected || pgErr.Code == pgerrcode.SerializationFailure
}
