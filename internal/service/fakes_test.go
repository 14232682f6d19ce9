package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/repository"
)

// memAllocations is an in-memory AllocationRepository. Transactions are
// serialized by a mutex and only applied when fn succeeds.
type memAllocations struct {
	mu           sync.Mutex
	participants map[string]domain.Participant
	numbers      map[int]domain.LuckyNumber
	config       *domain.CampaignConfig
	configErr    error

	// steal makes InsertNumber lose n to a simulated concurrent writer.
	steal func(n int) bool
	// aborts fails that many transactions before running fn.
	aborts int
}

func newMemAllocations() *memAllocations {
	return &memAllocations{
		participants: map[string]domain.Participant{},
		numbers:      map[int]domain.LuckyNumber{},
	}
}

func (m *memAllocations) WithinTransaction(ctx context.Context, fn func(store repository.AllocationStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.aborts > 0 {
		m.aborts--
		return fmt.Errorf("deadlock detected: %w", repository.ErrTransactionAborted)
	}

	tx := &memTx{
		m:            m,
		participants: map[string]domain.Participant{},
		numbers:      map[int]domain.LuckyNumber{},
	}
	if err := fn(tx); err != nil {
		return err
	}

	for k, v := range tx.participants {
		m.participants[k] = v
	}
	for k, v := range tx.numbers {
		m.numbers[k] = v
	}

	return nil
}

func (m *memAllocations) ListByDocumento(_ context.Context, documento string) ([]domain.LuckyNumber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []domain.LuckyNumber
	for _, n := range m.numbers {
		if n.Documento == documento {
			found = append(found, n)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Numero < found[j].Numero })

	return found, nil
}

func (m *memAllocations) issuedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.numbers)
}

type memTx struct {
	m            *memAllocations
	participants map[string]domain.Participant
	numbers      map[int]domain.LuckyNumber
}

func (tx *memTx) FindParticipant(_ context.Context, documento string) (domain.Participant, error) {
	if p, ok := tx.m.participants[documento]; ok {
		return p, nil
	}
	if p, ok := tx.participants[documento]; ok {
		return p, nil
	}

	return domain.Participant{}, fmt.Errorf("find: %w", repository.ErrParticipantNotFound)
}

func (tx *memTx) RegisterParticipant(ctx context.Context, documento string) (bool, error) {
	if _, err := tx.FindParticipant(ctx, documento); err == nil {
		return false, nil
	}
	tx.participants[documento] = domain.Participant{Documento: documento}

	return true, nil
}

func (tx *memTx) GetCampaignConfig(context.Context) (domain.CampaignConfig, error) {
	if tx.m.configErr != nil {
		return domain.CampaignConfig{}, tx.m.configErr
	}
	if tx.m.config == nil {
		return domain.CampaignConfig{}, fmt.Errorf("get: %w", repository.ErrCampaignConfigNotFound)
	}

	return *tx.m.config, nil
}

func (tx *memTx) IssuedNumbers(context.Context) (map[int]struct{}, error) {
	issued := make(map[int]struct{}, len(tx.m.numbers)+len(tx.numbers))
	for n := range tx.m.numbers {
		issued[n] = struct{}{}
	}
	for n := range tx.numbers {
		issued[n] = struct{}{}
	}

	return issued, nil
}

func (tx *memTx) InsertNumber(_ context.Context, number domain.LuckyNumber) (bool, error) {
	if tx.m.steal != nil && tx.m.steal(number.Numero) {
		tx.m.numbers[number.Numero] = domain.LuckyNumber{Numero: number.Numero, Documento: "concurrent"}
		return false, nil
	}
	if _, taken := tx.m.numbers[number.Numero]; taken {
		return false, nil
	}
	if _, taken := tx.numbers[number.Numero]; taken {
		return false, nil
	}
	tx.numbers[number.Numero] = number

	return true, nil
}

type memCampaign struct {
	config  *domain.CampaignConfig
	err     error
	issued  int64
	holders int64
}

func (c *memCampaign) GetCampaignConfig(context.Context) (domain.CampaignConfig, error) {
	if c.err != nil {
		return domain.CampaignConfig{}, c.err
	}
	if c.config == nil {
		return domain.CampaignConfig{}, fmt.Errorf("get: %w", repository.ErrCampaignConfigNotFound)
	}

	return *c.config, nil
}

func (c *memCampaign) SaveCampaignConfig(_ context.Context, series int) (domain.CampaignConfig, error) {
	c.config = &domain.CampaignConfig{SeriesNumericas: series}

	return *c.config, nil
}

func (c *memCampaign) CountIssued(context.Context, int) (int64, error) {
	return c.issued, nil
}

func (c *memCampaign) CountParticipants(context.Context) (int64, error) {
	return c.holders, nil
}

type memParticipants struct {
	byDocumento map[string]domain.Participant
	nextID      uint
}

func newMemParticipants() *memParticipants {
	return &memParticipants{byDocumento: map[string]domain.Participant{}}
}

func (r *memParticipants) Create(_ context.Context, p domain.Participant) (domain.Participant, error) {
	if _, ok := r.byDocumento[p.Documento]; ok {
		return domain.Participant{}, fmt.Errorf("insert: %w", repository.ErrDocumentExists)
	}
	r.nextID++
	p.ID = r.nextID
	r.byDocumento[p.Documento] = p

	return p, nil
}

func (r *memParticipants) FindByDocumento(_ context.Context, documento string) (domain.Participant, error) {
	p, ok := r.byDocumento[documento]
	if !ok {
		return domain.Participant{}, fmt.Errorf("find: %w", repository.ErrParticipantNotFound)
	}

	return p, nil
}

func (r *memParticipants) FindByDocumentoAndEmail(ctx context.Context, documento, email string) (domain.Participant, error) {
	p, err := r.FindByDocumento(ctx, documento)
	if err != nil {
		return domain.Participant{}, err
	}
	if p.Email != email {
		return domain.Participant{}, fmt.Errorf("find: %w", repository.ErrParticipantNotFound)
	}

	return p, nil
}

func (r *memParticipants) UpdatePassword(_ context.Context, id uint, hash string) error {
	for k, p := range r.byDocumento {
		if p.ID == id {
			p.Senha = hash
			r.byDocumento[k] = p
			return nil
		}
	}

	return repository.ErrParticipantNotFound
}

func (r *memParticipants) Search(_ context.Context, term string, limit, offset int) ([]domain.Participant, int64, error) {
	var all []domain.Participant
	for _, p := range r.byDocumento {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return []domain.Participant{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], total, nil
}
