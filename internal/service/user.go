package service

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
	"github.com/pandaloves/social-posts-app/internal/repository/redisrepo"
	"github.com/pandaloves/social-posts-app/pkg/utils"
)

type userService struct {
	logger   *zap.Logger
	repo     *repository.Repository
	secret   []byte
	tokenTTL time.Duration
}

func newUserService(logger *zap.Logger, repo *repository.Repository, secret []byte, tokenTTL time.Duration) User {
	return &userService{
		logger:   logger,
		repo:     repo,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *userService) Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, ErrInternal
	}

	user, err := s.repo.User.Create(ctx, model.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		s.logger.Sugar().Errorf("failed to create user(%s): %s", input.Username, err.Error())
		return nil, ErrInternal
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, input dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.User.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", input.Username, err.Error())
		return nil, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.IssueJWT(string(user.ID), user.Username, s.tokenTTL, s.secret)
	if err != nil {
		s.logger.Sugar().Errorf("failed to issue token for user(%s): %s", user.ID, err.Error())
		return nil, ErrInternal
	}

	return &dto.LoginResponse{
		Token:  token,
		UserID: user.ID,
	}, nil
}

func (s *userService) FindAll(ctx context.Context) ([]*model.User, error) {
	users, err := s.repo.User.FindAll(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find users: %s", err.Error())
		return nil, ErrInternal
	}
	return users, nil
}

func (s *userService) FindByID(ctx context.Context, id model.ID) (*model.User, error) {
	if s.repo.Redis != nil {
		cachedUser, err := redisrepo.Get[model.User](s.repo.Redis.Default, ctx, redisrepo.UserKey(string(id)))
		if err == nil && cachedUser != nil {
			return cachedUser, nil
		}
		if err != nil && err != redis.Nil {
			s.logger.Sugar().Errorf("failed to get user(%s) from redis: %s", id, err.Error())
		}
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", id, err.Error())
		return nil, ErrInternal
	}

	if s.repo.Redis != nil {
		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserKey(string(id)), user, CACHE_TTL); err != nil {
			s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id, err.Error())
		}
	}

	return user, nil
}

// Update edits the caller's own profile. Empty fields keep their value.
func (s *userService) Update(ctx context.Context, viewerID model.ID, id model.ID, input dto.UpdateUserRequest) (*model.User, error) {
	if viewerID != id {
		return nil, ErrForbidden
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", id, err.Error())
		return nil, ErrInternal
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}

	updatedUser, err := s.repo.User.Update(ctx, *user)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUsernameTaken
		}
		s.logger.Sugar().Errorf("failed to update user(%s): %s", id, err.Error())
		return nil, ErrInternal
	}

	s.forget(ctx, id)

	return updatedUser, nil
}

func (s *userService) Delete(ctx context.Context, viewerID model.ID, id model.ID) error {
	if viewerID != id {
		return ErrForbidden
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to delete user(%s): %s", id, err.Error())
		return ErrInternal
	}

	s.forget(ctx, id)

	return nil
}

// forget drops the cached profile and every cached page carrying the user's
// author snapshot.
func (s *userService) forget(ctx context.Context, id model.ID) {
	if s.repo.Redis == nil {
		return
	}
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserKey(string(id))).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) from redis: %s", id, err.Error())
	}
	invalidatePages(ctx, s.logger, s.repo, id)
}
