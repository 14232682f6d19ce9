package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gosimple/unidecode"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDocumentExists      = errors.New("participant document already registered")
	ErrParticipantNotFound = errors.New("participant not found")
)

type Participant struct {
	ID uint `gorm:"primaryKey"`

	Documento string `gorm:"uniqueIndex:uni_participantes_documento;not null"`
	Nome      string
	NomeBusca string `gorm:"index"`
	Genero    string
	Email     string `gorm:"index"`
	Telefone  string
	Senha     string

	Rua         string
	Numero      string
	Bairro      string
	Complemento *string
	CEP         string `gorm:"column:cep"`
	Cidade      string
	UF          string `gorm:"column:uf"`

	DataCadastro time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time
}

func (Participant) TableName() string {
	return "participantes"
}

// BeforeSave keeps the folded search column in sync with Nome.
func (p *Participant) BeforeSave(_ *gorm.DB) error {
	p.NomeBusca = FoldSearchTerm(p.Nome)
	return nil
}

// FoldSearchTerm lower-cases s and strips accents so "João" matches "joao".
func FoldSearchTerm(s string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

func (d *ParticipantDAO) Insert(ctx context.Context, participant Participant) (Participant, error) {
	result := d.db.WithContext(ctx).Create(&participant)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_participantes_documento") {
			return Participant{}, ErrDocumentExists
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

// InsertIfAbsent registers a bare participant for documento unless one exists.
// It reports whether a row was created.
func (d *ParticipantDAO) InsertIfAbsent(ctx context.Context, documento string) (bool, error) {
	participant := Participant{Documento: documento}

	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "documento"}}, DoNothing: true}).
		Create(&participant)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (d *ParticipantDAO) FindByDocumento(ctx context.Context, documento string) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).First(&participant, "documento = ?", documento)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) FindByDocumentoAndEmail(ctx context.Context, documento, email string) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).
		Where("documento = ? AND LOWER(email) = ?", documento, strings.ToLower(email)).
		First(&participant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := d.db.WithContext(ctx).Model(&Participant{}).Where("id = ?", id).Update("senha", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}

// Search lists participants newest first. A non-empty term matches a
// substring of the document or of the folded name.
func (d *ParticipantDAO) Search(ctx context.Context, term string, limit, offset int) ([]Participant, int64, error) {
	query := d.db.WithContext(ctx).Model(&Participant{})
	if term = strings.TrimSpace(term); term != "" {
		like := "%" + escapeLike(FoldSearchTerm(term)) + "%"
		query = query.Where("documento LIKE ? ESCAPE '\\' OR nome_busca LIKE ? ESCAPE '\\'", like, like)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var participants []Participant
	err := query.Order("data_cadastro DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&participants).Error
	if err != nil {
		return nil, 0, err
	}

	return participants, total, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// isUniqueViolation reports whether err is a unique constraint failure,
// optionally on the named constraint. Postgres reports it through pgconn,
// SQLite only through the message.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation &&
			(constraint == "" || pgErr.ConstraintName == constraint || strings.Contains(pgErr.Message, constraint))
	}

	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}
