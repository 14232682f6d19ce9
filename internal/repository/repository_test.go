package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/zumnet/numeros-sorte/internal/db"
	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/repository/dao"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite("")
	require.NoError(t, err)
	require.NoError(t, dao.InitTables(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gdb
}

func TestAllocationRepository_WithinTransaction(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	repo := NewAllocationRepository(dao.NewTransactor(gdb))
	numbers := NewLuckyNumberRepository(dao.NewLuckyNumberDAO(gdb))

	obs := domain.ObsManualIssue
	err := repo.WithinTransaction(ctx, func(store AllocationStore) error {
		_, err := store.FindParticipant(ctx, "12345678901")
		assert.ErrorIs(t, err, ErrParticipantNotFound)

		created, err := store.RegisterParticipant(ctx, "12345678901")
		require.NoError(t, err)
		assert.True(t, created)

		created, err = store.RegisterParticipant(ctx, "12345678901")
		require.NoError(t, err)
		assert.False(t, created)

		_, err = store.GetCampaignConfig(ctx)
		assert.ErrorIs(t, err, ErrCampaignConfigNotFound)

		for _, n := range []int{42, 7} {
			inserted, err := store.InsertNumber(ctx, domain.LuckyNumber{Numero: n, Documento: "12345678901", Lote: "l1", Obs: &obs})
			require.NoError(t, err)
			assert.True(t, inserted)
		}

		inserted, err := store.InsertNumber(ctx, domain.LuckyNumber{Numero: 42, Documento: "99988877766", Lote: "l2"})
		require.NoError(t, err)
		assert.False(t, inserted)

		issued, err := store.IssuedNumbers(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[int]struct{}{7: {}, 42: {}}, issued)

		return nil
	})
	require.NoError(t, err)

	found, err := numbers.ListByDocumento(ctx, "12345678901")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 7, found[0].Numero)
	assert.Equal(t, 42, found[1].Numero)
	assert.Equal(t, "l1", found[0].Lote)
	require.NotNil(t, found[0].Obs)
	assert.Equal(t, domain.ObsManualIssue, *found[0].Obs)
}

func TestAllocationRepository_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	repo := NewAllocationRepository(dao.NewTransactor(gdb))
	numbers := NewLuckyNumberRepository(dao.NewLuckyNumberDAO(gdb))
	errBoom := errors.New("boom")

	err := repo.WithinTransaction(ctx, func(store AllocationStore) error {
		if _, err := store.RegisterParticipant(ctx, "12345678901"); err != nil {
			return err
		}
		if _, err := store.InsertNumber(ctx, domain.LuckyNumber{Numero: 1, Documento: "12345678901", Lote: "l"}); err != nil {
			return err
		}

		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	count, err := numbers.CountIssued(ctx, 100000)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = NewParticipantRepository(dao.NewParticipantDAO(gdb)).FindByDocumento(ctx, "12345678901")
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestLuckyNumberRepository_ListByDocumentos(t *testing.T) {
	ctx := context.Background()
	gdb := newTestDB(t)
	numberDAO := dao.NewLuckyNumberDAO(gdb)
	repo := NewLuckyNumberRepository(numberDAO)

	for _, n := range []dao.LuckyNumber{
		{Numero: 3, Documento: "a", Lote: "x"},
		{Numero: 1, Documento: "a", Lote: "x"},
		{Numero: 2, Documento: "b", Lote: "y"},
		{Numero: 150000, Documento: "b", Lote: "y"},
	} {
		_, err := numberDAO.InsertIfFree(ctx, n)
		require.NoError(t, err)
	}

	grouped, err := repo.ListByDocumentos(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Len(t, grouped["a"], 2)
	assert.Equal(t, 1, grouped["a"][0].Numero)
	assert.Len(t, grouped["b"], 2)
	assert.Empty(t, grouped["c"])

	issued, err := repo.CountIssued(ctx, 100000)
	require.NoError(t, err)
	assert.Equal(t, int64(3), issued)

	participants, err := repo.CountParticipants(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), participants)
}

func TestParticipantRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewParticipantRepository(dao.NewParticipantDAO(newTestDB(t)))
	complemento := "apto 12"

	created, err := repo.Create(ctx, domain.Participant{
		Documento: "12345678901",
		Nome:      "Conceição Araújo",
		Email:     "Conceicao@Example.com",
		Senha:     "hash",
		Address:   domain.Address{Rua: "Rua A", Complemento: &complemento, CEP: "01310100", UF: "SP"},
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = repo.Create(ctx, domain.Participant{Documento: "12345678901"})
	assert.ErrorIs(t, err, ErrDocumentExists)

	found, err := repo.FindByDocumentoAndEmail(ctx, "12345678901", "conceicao@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Rua A", found.Address.Rua)
	require.NotNil(t, found.Address.Complemento)
	assert.Equal(t, complemento, *found.Address.Complemento)

	require.NoError(t, repo.UpdatePassword(ctx, found.ID, "new-hash"))
	found, err = repo.FindByDocumento(ctx, "12345678901")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.Senha)

	matches, total, err := repo.Search(ctx, "conceicao", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, matches, 1)
	assert.Equal(t, "Conceição Araújo", matches[0].Nome)
}

func TestCampaignRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCampaignRepository(dao.NewCampaignDAO(newTestDB(t)))

	_, err := repo.GetCampaignConfig(ctx)
	assert.ErrorIs(t, err, ErrCampaignConfigNotFound)

	saved, err := repo.SaveCampaignConfig(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, saved.SeriesNumericas)

	found, err := repo.GetCampaignConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, found.SeriesNumericas)
}
