package feed

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pandaloves/social-posts-app/internal/model"
)

// Policy says how a confirmed mutation reaches the list.
type Policy int

const (
	// PolicyLocalPatch reconciles the list in place.
	PolicyLocalPatch Policy = iota
	// PolicyReload patches the list and then reloads the first page.
	PolicyReload
)

type Policies struct {
	Create Policy
	Update Policy
	Delete Policy
}

type PostAPI interface {
	CreatePost(ctx context.Context, userID model.ID, text string) (model.Post, error)
	UpdatePost(ctx context.Context, id model.ID, text string) (model.Post, error)
	DeletePost(ctx context.Context, id model.ID) error
}

type UserAPI interface {
	GetUser(ctx context.Context, id model.ID) (model.User, error)
}

// Session runs post mutations against the backend for one viewer and folds
// the confirmed result into a store.
type Session struct {
	store    *Store
	api      PostAPI
	viewer   model.ID
	policies Policies
	logger   *zap.Logger
}

func NewSession(store *Store, api PostAPI, viewer model.ID, policies Policies, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:    store,
		api:      api,
		viewer:   viewer,
		policies: policies,
		logger:   logger,
	}
}

func (s *Session) Store() *Store {
	return s.store
}

// CreatePost publishes text as the viewer. The post shows up locally when the
// store is the feed or the viewer's own wall.
func (s *Session) CreatePost(ctx context.Context, text string) (model.Post, error) {
	post, err := s.api.CreatePost(ctx, s.viewer, text)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create post: %s", err.Error())
		return model.Post{}, err
	}
	if post.Author.ID == "" {
		post.Author.ID = s.viewer
	}

	subject := s.store.Subject()
	if subject == "" || subject == post.Author.ID {
		s.store.ApplyCreate(post)
	}
	return post, s.reload(ctx, s.policies.Create)
}

// UpdatePost rewrites the text of one of the viewer's posts.
func (s *Session) UpdatePost(ctx context.Context, id model.ID, text string) error {
	if post, ok := s.store.State().Find(id); ok && !IsOwnPost(post, s.viewer) {
		return ErrNotOwner
	}
	updated, err := s.api.UpdatePost(ctx, id, text)
	if err != nil {
		s.logger.Sugar().Errorf("failed to update post %s: %s", string(id), err.Error())
		return err
	}

	patch := model.PostPatch{Text: &text}
	// Prefer the stored record when the backend sent one back.
	if updated.ID == id {
		if updated.Text != "" {
			patch.Text = &updated.Text
		}
		patch.UpdatedAt = updated.UpdatedAt
	}
	s.store.ApplyUpdate(id, patch)
	return s.reload(ctx, s.policies.Update)
}

func (s *Session) DeletePost(ctx context.Context, id model.ID) error {
	if post, ok := s.store.State().Find(id); ok && !IsOwnPost(post, s.viewer) {
		return ErrNotOwner
	}
	if err := s.api.DeletePost(ctx, id); err != nil {
		s.logger.Sugar().Errorf("failed to delete post %s: %s", string(id), err.Error())
		return err
	}

	s.store.ApplyDelete(id)
	return s.reload(ctx, s.policies.Delete)
}

func (s *Session) reload(ctx context.Context, p Policy) error {
	if p != PolicyReload {
		return nil
	}
	_, err := s.store.RequestPage(ctx, 0, Replace)
	return err
}

// Wall is a user's profile together with the first page of their posts.
type Wall struct {
	Owner  model.User
	Viewer model.ID
	State  PageState
}

func (w Wall) IsOwnWall() bool {
	return w.Viewer != "" && w.Owner.ID == w.Viewer
}

// OpenWall loads the profile of the store's subject and the first page of
// the wall at the same time.
func OpenWall(ctx context.Context, users UserAPI, store *Store, viewer model.ID) (Wall, error) {
	wall := Wall{Viewer: viewer}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		owner, err := users.GetUser(gctx, store.Subject())
		if err != nil {
			return err
		}
		wall.Owner = owner
		return nil
	})
	g.Go(func() error {
		state, err := store.RequestPage(gctx, 0, Replace)
		if err != nil {
			return err
		}
		wall.State = state
		return nil
	})

	if err := g.Wait(); err != nil {
		return Wall{}, err
	}
	return wall, nil
}
