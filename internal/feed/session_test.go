package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandaloves/social-posts-app/internal/model"
)

type fakePostAPI struct {
	created  model.Post
	returned *model.Post
	err      error
	updated  []model.ID
	deleted  []model.ID
}

func (a *fakePostAPI) CreatePost(_ context.Context, userID model.ID, text string) (model.Post, error) {
	if a.err != nil {
		return model.Post{}, a.err
	}
	p := a.created
	p.Text = text
	p.Author.ID = userID
	return p, nil
}

func (a *fakePostAPI) UpdatePost(_ context.Context, id model.ID, _ string) (model.Post, error) {
	if a.err != nil {
		return model.Post{}, a.err
	}
	a.updated = append(a.updated, id)
	if a.returned != nil {
		return *a.returned, nil
	}
	return model.Post{}, nil
}

func (a *fakePostAPI) DeletePost(_ context.Context, id model.ID) error {
	if a.err != nil {
		return a.err
	}
	a.deleted = append(a.deleted, id)
	return nil
}

type fakeUserAPI struct {
	users map[model.ID]model.User
}

func (a fakeUserAPI) GetUser(_ context.Context, id model.ID) (model.User, error) {
	u, ok := a.users[id]
	if !ok {
		return model.User{}, httpError{code: 404}
	}
	return u, nil
}

func loadedStore(t *testing.T, subject model.ID) (*Store, *fakeFetcher) {
	t.Helper()
	f := newFakeFetcher()
	f.setPage(t, 0, 10, 2, post("p1", 1), post("p2", 2))
	s := New(f, subject, 10, nil)
	_, err := s.RequestPage(context.Background(), 0, Replace)
	require.NoError(t, err)
	return s, f
}

func TestSessionLocalPatch(t *testing.T) {
	store, f := loadedStore(t, "")
	api := &fakePostAPI{created: post("p3", 0)}
	sess := NewSession(store, api, "1", Policies{}, nil)
	ctx := context.Background()

	created, err := sess.CreatePost(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", created.Text)
	assert.Equal(t, []model.ID{"p3", "p1", "p2"}, ids(store.State()))

	require.NoError(t, sess.UpdatePost(ctx, "p1", "edited"))
	got, _ := store.State().Find("p1")
	assert.Equal(t, "edited", got.Text)
	assert.True(t, got.Edited())

	require.NoError(t, sess.DeletePost(ctx, "p2"))
	assert.Equal(t, []model.ID{"p3", "p1"}, ids(store.State()))
	assert.Equal(t, 2, store.State().TotalItems)

	assert.Equal(t, int32(1), f.calls.Load(), "local patches never reload")
}

func TestSessionUpdateUsesServerRecord(t *testing.T) {
	store, _ := loadedStore(t, "")
	edited := base.Add(time.Hour)
	returned := post("p1", 1)
	returned.Text = "edited"
	returned.UpdatedAt = &edited
	sess := NewSession(store, &fakePostAPI{returned: &returned}, "1", Policies{}, nil)

	require.NoError(t, sess.UpdatePost(context.Background(), "p1", "  edited  "))
	got, _ := store.State().Find("p1")
	assert.Equal(t, "edited", got.Text)
	require.NotNil(t, got.UpdatedAt)
	assert.True(t, edited.Equal(*got.UpdatedAt))
}

func TestSessionReloadPolicy(t *testing.T) {
	store, f := loadedStore(t, "")
	api := &fakePostAPI{}
	sess := NewSession(store, api, "1", Policies{Delete: PolicyReload}, nil)

	f.setPage(t, 0, 10, 1, post("p1", 1))
	require.NoError(t, sess.DeletePost(context.Background(), "p2"))

	assert.Equal(t, []model.ID{"p1"}, ids(store.State()))
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestSessionCreateOnOtherWall(t *testing.T) {
	store, _ := loadedStore(t, "2")
	sess := NewSession(store, &fakePostAPI{created: post("p3", 0)}, "1", Policies{}, nil)

	_, err := sess.CreatePost(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []model.ID{"p1", "p2"}, ids(store.State()))
}

func TestSessionRejectsForeignPosts(t *testing.T) {
	store, _ := loadedStore(t, "")
	api := &fakePostAPI{}
	sess := NewSession(store, api, "2", Policies{}, nil)

	assert.ErrorIs(t, sess.UpdatePost(context.Background(), "p1", "x"), ErrNotOwner)
	assert.ErrorIs(t, sess.DeletePost(context.Background(), "p1"), ErrNotOwner)
	assert.Empty(t, api.updated)
	assert.Empty(t, api.deleted)
}

func TestSessionBackendFailureLeavesStore(t *testing.T) {
	store, _ := loadedStore(t, "")
	before := store.State()
	boom := errors.New("boom")
	sess := NewSession(store, &fakePostAPI{err: boom}, "1", Policies{}, nil)

	_, err := sess.CreatePost(context.Background(), "hello")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, sess.DeletePost(context.Background(), "p1"), boom)
	assert.Equal(t, before, store.State())
}

func TestOpenWall(t *testing.T) {
	f := newFakeFetcher()
	f.setPage(t, 0, 10, 1, post("p1", 1))
	users := fakeUserAPI{users: map[model.ID]model.User{
		"1": {ID: "1", Username: "Mia"},
	}}

	wall, err := OpenWall(context.Background(), users, New(f, "1", 10, nil), "1")
	require.NoError(t, err)
	assert.Equal(t, "Mia", wall.Owner.Username)
	assert.Equal(t, []model.ID{"p1"}, ids(wall.State))
	assert.True(t, wall.IsOwnWall())

	_, err = OpenWall(context.Background(), users, New(f, "9", 10, nil), "1")
	var sc statusCoder
	require.True(t, errors.As(err, &sc))
	assert.Equal(t, 404, sc.StatusCode())
}
