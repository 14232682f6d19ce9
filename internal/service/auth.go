package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/zumnet/numeros-sorte/internal/config"
	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/repository"
)

const (
	resetPasswordLength   = 8
	resetPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"
)

var (
	ErrDocumentExists        = repository.ErrDocumentExists
	ErrWrongPassword         = errors.New("wrong password")
	ErrWrongAdminCredentials = errors.New("wrong admin credentials")
)

type AuthParticipantRepository interface {
	Create(ctx context.Context, participant domain.Participant) (domain.Participant, error)
	FindByDocumento(ctx context.Context, documento string) (domain.Participant, error)
	FindByDocumentoAndEmail(ctx context.Context, documento, email string) (domain.Participant, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

type AuthService struct {
	repo  AuthParticipantRepository
	admin *config.AdminConfig
}

func NewAuthService(repo AuthParticipantRepository, admin *config.AdminConfig) *AuthService {
	return &AuthService{
		repo:  repo,
		admin: admin,
	}
}

func (s *AuthService) Signup(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	hash, err := hashPassword(participant.Senha)
	if err != nil {
		return domain.Participant{}, err
	}
	participant.Senha = hash

	created, err := s.repo.Create(ctx, participant)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, documento, senha string) (domain.Participant, error) {
	participant, err := s.repo.FindByDocumento(ctx, documento)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return domain.Participant{}, ErrParticipantNotFound
		}

		return domain.Participant{}, fmt.Errorf("s.repo.FindByDocumento -> %w", err)
	}

	// Participants registered by an allocation have no password until they reset it.
	if participant.Senha == "" {
		return domain.Participant{}, ErrWrongPassword
	}

	if err = bcrypt.CompareHashAndPassword([]byte(participant.Senha), []byte(senha)); err != nil {
		return domain.Participant{}, ErrWrongPassword
	}

	return participant, nil
}

// ResetPassword replaces the password of the participant owning both
// documento and email and returns the new plain text password.
func (s *AuthService) ResetPassword(ctx context.Context, documento, email string) (string, error) {
	participant, err := s.repo.FindByDocumentoAndEmail(ctx, documento, email)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return "", ErrParticipantNotFound
		}

		return "", fmt.Errorf("s.repo.FindByDocumentoAndEmail -> %w", err)
	}

	password, err := randomPassword(resetPasswordLength)
	if err != nil {
		return "", err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", err
	}

	if err = s.repo.UpdatePassword(ctx, participant.ID, hash); err != nil {
		return "", fmt.Errorf("s.repo.UpdatePassword -> %w", err)
	}

	return password, nil
}

// AdminLogin checks the configured administrator credentials. The configured
// password may be a bcrypt hash.
func (s *AuthService) AdminLogin(email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(email)), []byte(strings.ToLower(s.admin.Email))) == 1

	var passwordOK bool
	if strings.HasPrefix(s.admin.Password, "$2") {
		passwordOK = bcrypt.CompareHashAndPassword([]byte(s.admin.Password), []byte(password)) == nil
	} else {
		passwordOK = subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	}

	if !emailOK || !passwordOK {
		return ErrWrongAdminCredentials
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return string(hash), nil
}

// randomPassword draws from an alphabet without look-alike characters and
// retries until the result holds at least one letter and one digit.
func randomPassword(length int) (string, error) {
	alphabetSize := big.NewInt(int64(len(resetPasswordAlphabet)))

	for {
		b := make([]byte, length)
		for i := range b {
			n, err := rand.Int(rand.Reader, alphabetSize)
			if err != nil {
				return "", fmt.Errorf("rand.Int -> %w", err)
			}
			b[i] = resetPasswordAlphabet[n.Int64()]
		}

		password := string(b)
		if strings.ContainsAny(password, "23456789") && strings.IndexFunc(password, isLetter) >= 0 {
			return password, nil
		}
	}
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
