package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

const (
	MAX_LIMIT     = 100
	DEFAULT_LIMIT = 10

	CACHE_TTL = time.Hour
)

func maxLimit(limit *int) {
	if *limit <= 0 {
		*limit = DEFAULT_LIMIT
	}
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type Post interface {
	// FindPage returns one 0-based page, newest first. An empty authorID pages
	// over the whole feed.
	FindPage(ctx context.Context, authorID model.ID, page int, size int) (*dto.PostsPage, error)
	Create(ctx context.Context, authorID model.ID, text string) (*model.Post, error)
	Update(ctx context.Context, viewerID model.ID, postID model.ID, text string) (*model.Post, error)
	Delete(ctx context.Context, viewerID model.ID, postID model.ID) error
}

type User interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	FindByID(ctx context.Context, id model.ID) (*model.User, error)
	Update(ctx context.Context, viewerID model.ID, id model.ID, input dto.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, viewerID model.ID, id model.ID) error
}

type Comment interface {
	Create(ctx context.Context, userID model.ID, input dto.CreateCommentRequest) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID model.ID) ([]*model.Comment, error)
}

type Friendship interface {
	Request(ctx context.Context, viewerID model.ID, input dto.FriendshipRequest) (*model.Friendship, error)
	Respond(ctx context.Context, viewerID model.ID, id model.ID, accept bool) (*model.Friendship, error)
	FindFriends(ctx context.Context, userID model.ID) ([]*model.Friendship, error)
}

type Service struct {
	Post
	User
	Comment
	Friendship
}

// New wires the services. secret signs the tokens handed out by Login.
func New(logger *zap.Logger, repo *repository.Repository, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{
		Post:       newPostService(logger, repo),
		User:       newUserService(logger, repo, secret, tokenTTL),
		Comment:    newCommentService(logger, repo),
		Friendship: newFriendshipService(logger, repo),
	}
}
