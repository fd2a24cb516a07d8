package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newCommentService(logger *zap.Logger, repo *repository.Repository) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
	}
}

func (s *commentService) Create(ctx context.Context, userID model.ID, input dto.CreateCommentRequest) (*model.Comment, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", userID, err.Error())
		return nil, ErrInternal
	}

	comment, err := s.repo.Comment.Create(ctx, model.Comment{
		PostID:      model.ID(input.PostID),
		CommentText: input.CommentText,
		Username:    user.Username,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to create comment on post(%s): %s", input.PostID, err.Error())
		return nil, ErrInternal
	}

	return comment, nil
}

func (s *commentService) FindPostComments(ctx context.Context, postID model.ID) ([]*model.Comment, error) {
	if _, err := s.repo.Post.FindByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s): %s", postID, err.Error())
		return nil, ErrInternal
	}

	comments, err := s.repo.Comment.FindPostComments(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%s) comments: %s", postID, err.Error())
		return nil, ErrInternal
	}

	return comments, nil
}
