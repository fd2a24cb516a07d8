package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

func TestParseID(t *testing.T) {
	n, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, model.ID("42"), formatID(n))

	for _, id := range []model.ID{"", "abc", "4.2"} {
		_, err := parseID(id)
		assert.ErrorIs(t, err, repository.ErrNotFound, string(id))
	}
}

func TestMapErr(t *testing.T) {
	assert.ErrorIs(t, mapErr(pgx.ErrNoRows), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(fmt.Errorf("scan: %w", pgx.ErrNoRows)), repository.ErrNotFound)
	assert.ErrorIs(t, mapErr(&pgconn.PgError{Code: "23505"}), repository.ErrAlreadyExists)
	assert.ErrorIs(t, mapErr(&pgconn.PgError{Code: "23503"}), repository.ErrNotFound)

	other := errors.New("connection reset")
	assert.Equal(t, other, mapErr(other))
}

// TestStorage runs against a real database when POSTGRES_TEST_DSN is set.
func TestStorage(t *testing.T) {
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN is not set")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, "TRUNCATE friendships, comments, posts, users RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	s := New(pool)

	alice, err := s.User.Create(ctx, model.User{Username: "alice", Email: "a@example.com", PasswordHash: "x", CreatedAt: time.Now()})
	require.NoError(t, err)
	bob, err := s.User.Create(ctx, model.User{Username: "bob", Email: "b@example.com", PasswordHash: "x", CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = s.User.Create(ctx, model.User{Username: "alice", PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		_, err := s.Post.Create(ctx, model.Post{
			Text:      fmt.Sprintf("post %d", i),
			Author:    alice.Ref(),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	page, total, err := s.Post.FindPage(ctx, "", 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 3)
	assert.Equal(t, "post 3", page[0].Text)
	assert.Equal(t, "alice", page[0].Author.Username)

	wall, total, err := s.Post.FindPage(ctx, bob.ID, 3, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, wall)

	updated, err := s.Post.UpdateText(ctx, page[0].ID, "edited", base)
	require.NoError(t, err)
	require.NotNil(t, updated.UpdatedAt)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

	_, err = s.Comment.Create(ctx, model.Comment{PostID: page[0].ID, CommentText: "hi", Username: "bob", CreatedAt: time.Now()})
	require.NoError(t, err)
	comments, err := s.Comment.FindPostComments(ctx, page[0].ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)

	f, err := s.Friendship.Create(ctx, model.Friendship{RequesterID: alice.ID, AddresseeID: bob.ID, Status: model.FriendshipPending})
	require.NoError(t, err)
	_, err = s.Friendship.UpdateStatus(ctx, f.ID, model.FriendshipAccepted)
	require.NoError(t, err)
	friends, err := s.Friendship.FindAccepted(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "alice", friends[0].Requester)

	require.NoError(t, s.Post.Delete(ctx, page[0].ID))
	_, err = s.Post.FindByID(ctx, page[0].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
