package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/tictactoe-timetravel/internal/domain"
	"github.com/jaminalder/tictactoe-timetravel/internal/entity"
	"github.com/jaminalder/tictactoe-timetravel/testing/suite"
)

func TestSessionRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSessionRepository(st.Storage, time.Hour)

	// Given: a session that has left the game start
	session := entity.NewSession("123", time.Now())
	session.Current = session.Current.Play(domain.Coordinates{X: 0, Y: 0})
	session.History = session.History.Extend(session.Current)

	// When: CreateOrUpdate is called
	err := repo.CreateOrUpdate(ctx, session)

	// Then: no error should be returned and the key carries the ttl
	require.NoError(t, err)
	ttl, err := st.Storage.TTL(ctx, "session:123").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, time.Hour)

		session := entity.NewSession("123", time.Now())
		session.Current = session.Current.Play(domain.Coordinates{X: 2, Y: 1})
		session.History = session.History.Extend(session.Current)
		session.Descending = true

		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: GetByID is called with an existing ID
		got, err := repo.GetByID(ctx, session.ID)

		// Then: the decoded session matches, outcome included
		require.NoError(t, err)
		require.Equal(t, session.ID, got.ID)
		require.Len(t, got.History, 2)
		assert.True(t, got.Current.Equal(session.Current))
		assert.True(t, got.Descending)
		assert.Equal(t, domain.O, got.Current.NextTurn())
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		repo := NewSessionRepository(st.Storage, time.Hour)

		_, err := repo.GetByID(ctx, "9999999")

		require.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	repo := NewSessionRepository(st.Storage, time.Hour)

	require.NoError(t, repo.CreateOrUpdate(ctx, entity.NewSession("123", time.Now())))
	require.NoError(t, repo.DeleteByID(ctx, "123"))

	_, err := repo.GetByID(ctx, "123")
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.ErrorIs(t, repo.DeleteByID(ctx, "123"), ErrSessionNotFound)
}
