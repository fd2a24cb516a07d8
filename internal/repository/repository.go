package repository

import (
	"context"
	"errors"
	"time"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository/redisrepo"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id model.ID) (*model.Post, error)
	// FindPage returns one page of posts, newest first, with the total count.
	// An empty authorID pages over every post.
	FindPage(ctx context.Context, authorID model.ID, limit int, offset int) ([]*model.Post, int, error)
	UpdateText(ctx context.Context, id model.ID, text string, updatedAt time.Time) (*model.Post, error)
	Delete(ctx context.Context, id model.ID) error
}

type User interface {
	Create(ctx context.Context, user model.User) (*model.User, error)
	FindByID(ctx context.Context, id model.ID) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	Update(ctx context.Context, user model.User) (*model.User, error)
	Delete(ctx context.Context, id model.ID) error
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	// FindPostComments returns the comments of a post, oldest first.
	FindPostComments(ctx context.Context, postID model.ID) ([]*model.Comment, error)
}

type Friendship interface {
	// Create fails with ErrAlreadyExists when the two users already have a
	// friendship in either direction.
	Create(ctx context.Context, friendship model.Friendship) (*model.Friendship, error)
	FindByID(ctx context.Context, id model.ID) (*model.Friendship, error)
	FindBetween(ctx context.Context, a model.ID, b model.ID) (*model.Friendship, error)
	UpdateStatus(ctx context.Context, id model.ID, status model.FriendshipStatus) (*model.Friendship, error)
	FindAccepted(ctx context.Context, userID model.ID) ([]*model.Friendship, error)
}

// Storage is one durable backend. Postgres and badger both provide it.
type Storage struct {
	Post       Post
	User       User
	Comment    Comment
	Friendship Friendship
}

type Repository struct {
	Storage
	// Redis is nil when no cache is configured.
	Redis *redisrepo.RedisRepository
}

func New(storage *Storage, redis *redisrepo.RedisRepository) *Repository {
	return &Repository{
		Storage: *storage,
		Redis:   redis,
	}
}
