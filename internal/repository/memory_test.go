package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
	"github.com/jaminalder/tictactoe-timetravel/internal/entity"
)

func TestMemorySessionRepository_CreateOrUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(0)

	// Given: a session with one move played
	session := entity.NewSession("123", time.Now())
	session.Current = session.Current.Play(domain.Coordinates{X: 1, Y: 1})
	session.History = session.History.Extend(session.Current)

	// When: CreateOrUpdate is called
	require.NoError(t, repo.CreateOrUpdate(ctx, session))

	// Then: the stored session is returned
	got, err := repo.GetByID(ctx, "123")
	require.NoError(t, err)
	require.Len(t, got.History, 2)
	assert.True(t, got.Current.Equal(session.Current))
}

func TestMemorySessionRepository_StoresCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(0)

	session := entity.NewSession("123", time.Now())
	require.NoError(t, repo.CreateOrUpdate(ctx, session))

	// When: the caller keeps changing its value after saving
	session.Descending = true
	session.History = session.History.Extend(domain.Initial().Play(domain.Coordinates{}))

	// Then: the stored session is unaffected
	got, err := repo.GetByID(ctx, "123")
	require.NoError(t, err)
	assert.False(t, got.Descending)
	assert.Len(t, got.History, 1)
}

func TestMemorySessionRepository_GetByID_NotFound(t *testing.T) {
	repo := NewMemorySessionRepository(0)

	_, err := repo.GetByID(context.Background(), "9999999")

	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	repo := newMemorySessionRepository(time.Minute, func() time.Time { return now })

	require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("123", now)))

	// Given: the ttl has not passed yet
	now = now.Add(30 * time.Second)
	_, err := repo.GetByID(ctx, "123")
	require.NoError(t, err)

	// When: the ttl passes without a write
	now = now.Add(2 * time.Minute)

	// Then: the session is gone
	_, err = repo.GetByID(ctx, "123")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionRepository_DeleteByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySessionRepository(0)

	require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("123", time.Now())))
	require.NoError(t, repo.DeleteByID(ctx, "123"))

	_, err := repo.GetByID(ctx, "123")
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.ErrorIs(t, repo.DeleteByID(ctx, "123"), ErrSessionNotFound)
}
