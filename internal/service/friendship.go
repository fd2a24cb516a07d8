package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/repository"
)

type friendshipService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newFriendshipService(logger *zap.Logger, repo *repository.Repository) Friendship {
	return &friendshipService{
		logger: logger,
		repo:   repo,
	}
}

// Request starts a PENDING friendship. Only the requester may send it, and a
// pair of users holds at most one friendship.
func (s *friendshipService) Request(ctx context.Context, viewerID model.ID, input dto.FriendshipRequest) (*model.Friendship, error) {
	requesterID := model.ID(input.RequesterUserID)
	addresseeID := model.ID(input.AddresseeUserID)

	if requesterID != viewerID {
		return nil, ErrForbidden
	}
	if requesterID == addresseeID {
		return nil, ErrSelfFriendship
	}

	_, err := s.repo.Friendship.FindBetween(ctx, requesterID, addresseeID)
	if err == nil {
		return nil, ErrFriendshipExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Sugar().Errorf("failed to find friendship between user(%s) and user(%s): %s", requesterID, addresseeID, err.Error())
		return nil, ErrInternal
	}

	friendship, err := s.repo.Friendship.Create(ctx, model.Friendship{
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      model.FriendshipPending,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrFriendshipExists
		}
		s.logger.Sugar().Errorf("failed to create friendship: %s", err.Error())
		return nil, ErrInternal
	}

	return friendship, nil
}

// Respond accepts or rejects a pending friendship addressed to the viewer.
func (s *friendshipService) Respond(ctx context.Context, viewerID model.ID, id model.ID, accept bool) (*model.Friendship, error) {
	friendship, err := s.repo.Friendship.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrFriendshipNotFound
		}
		s.logger.Sugar().Errorf("failed to find friendship(%s): %s", id, err.Error())
		return nil, ErrInternal
	}

	if friendship.AddresseeID != viewerID {
		return nil, ErrForbidden
	}
	if friendship.Status != model.FriendshipPending {
		return nil, ErrFriendshipNotPending
	}

	status := model.FriendshipRejected
	if accept {
		status = model.FriendshipAccepted
	}

	updated, err := s.repo.Friendship.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Sugar().Errorf("failed to update friendship(%s) status: %s", id, err.Error())
		return nil, ErrInternal
	}

	return updated, nil
}

func (s *friendshipService) FindFriends(ctx context.Context, userID model.ID) ([]*model.Friendship, error) {
	if _, err := s.repo.User.FindByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", userID, err.Error())
		return nil, ErrInternal
	}

	friendships, err := s.repo.Friendship.FindAccepted(ctx, userID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) friends: %s", userID, err.Error())
		return nil, ErrInternal
	}

	return friendships, nil
}
