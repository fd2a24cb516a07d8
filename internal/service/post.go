package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
	"github.com/pandaloves/social-posts-app/internal/repository/redisrepo"
)

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newPostService(logger *zap.Logger, repo *repository.Repository) Post {
	return &postService{
		logger: logger,
		repo:   repo,
	}
}

func (s *postService) FindPage(ctx context.Context, authorID model.ID, page int, size int) (*dto.PostsPage, error) {
	maxLimit(&size)
	if page < 0 {
		page = 0
	}
	// page*size must stay a valid offset.
	if page > (math.MaxInt-size)/size {
		return nil, ErrPageOutOfRange
	}
	key := redisrepo.PostsPageKey(string(authorID), page, size)

	if s.repo.Redis != nil {
		cachedPage, err := redisrepo.Get[dto.PostsPage](s.repo.Redis.Default, ctx, key)
		if err == nil && cachedPage != nil {
			return cachedPage, nil
		}
		if err != nil && err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get posts page(%s) from redis: %s", key, err.Error())
		}
	}

	posts, total, err := s.repo.Post.FindPage(ctx, authorID, size, page*size)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find posts page(%s): %s", key, err.Error())
		return nil, ErrInternal
	}
	result := dto.NewPostsPage(posts, total, page, size)

	if s.repo.Redis != nil {
		if err := s.repo.Redis.Default.SetJSON(ctx, key, result, CACHE_TTL); err != nil {
			s.logger.Sugar().Errorf("failed to set posts page(%s) in redis: %s", key, err.Error())
		}
	}

	return &result, nil
}

func (s *postService) Create(ctx context.Context, authorID model.ID, text string) (*model.Post, error) {
	author, err := s.repo.User.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", authorID, err.Error())
		return nil, ErrInternal
	}

	post := model.Post{
		Text:      text,
		Author:    author.Ref(),
		CreatedAt: time.Now().UTC(),
	}
	createdPost, err := s.repo.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID, err.Error())
		return nil, ErrInternal
	}

	s.invalidatePages(ctx, authorID)

	return createdPost, nil
}

func (s *postService) Update(ctx context.Context, viewerID model.ID, postID model.ID, text string) (*model.Post, error) {
	if _, err := s.findOwned(ctx, viewerID, postID); err != nil {
		return nil, err
	}

	updatedPost, err := s.repo.Post.UpdateText(ctx, postID, text, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to update post(%s): %s", postID, err.Error())
		return nil, ErrInternal
	}

	s.invalidatePages(ctx, viewerID)

	return updatedPost, nil
}

func (s *postService) Delete(ctx context.Context, viewerID model.ID, postID model.ID) error {
	if _, err := s.findOwned(ctx, viewerID, postID); err != nil {
		return err
	}

	if err := s.repo.Post.Delete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%s): %s", postID, err.Error())
		return ErrInternal
	}

	s.invalidatePages(ctx, viewerID)

	return nil
}

func (s *postService) findOwned(ctx context.Context, viewerID model.ID, postID model.ID) (*model.Post, error) {
	post, err := s.repo.Post.FindByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%s): %s", postID, err.Error())
		return nil, ErrInternal
	}
	if !post.IsOwnedBy(viewerID) {
		return nil, ErrForbidden
	}
	return post, nil
}

// invalidatePages drops the cached pages of the author's wall and of the feed.
func (s *postService) invalidatePages(ctx context.Context, authorID model.ID) {
	invalidatePages(ctx, s.logger, s.repo, authorID)
}

func invalidatePages(ctx context.Context, logger *zap.Logger, repo *repository.Repository, authorID model.ID) {
	if repo.Redis == nil {
		return
	}
	for _, pattern := range []string{
		redisrepo.PostsPagePattern(string(authorID)),
		redisrepo.PostsPagePattern(""),
	} {
		if _, err := redisrepo.DelPattern(repo.Redis.Default, ctx, pattern); err != nil {
			logger.Sugar().Errorf("failed to delete cached pages(%s) from redis: %s", pattern, err.Error())
		}
	}
}
