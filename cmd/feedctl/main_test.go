package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/internal/client"
	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/feed"
	"github.com/pandaloves/social-posts-app/internal/handler"
	"github.com/pandaloves/social-posts-app/internal/repository"
	"github.com/pandaloves/social-posts-app/internal/repository/badgerrepo"
	"github.com/pandaloves/social-posts-app/internal/service"
)

var secret = []byte("feedctl-secret")

func newBackend(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := badgerrepo.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.New(badgerrepo.New(db), nil)
	services := service.New(zap.NewNop(), repo, secret, time.Hour)
	srv := httptest.NewServer(handler.New(zap.NewNop(), services, secret).InitRoutes())
	t.Cleanup(srv.Close)

	api := client.New(zap.NewNop(), srv.URL, time.Second)
	for _, name := range []string{"alice", "bob"} {
		_, err := api.Register(context.Background(), dto.RegisterRequest{
			Username: name,
			Email:    name + "@example.com",
			Password: "password",
		})
		require.NoError(t, err)
	}
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var tokenLine = regexp.MustCompile(`export FEEDCTL_TOKEN=(\S+)`)

func login(t *testing.T, baseURL, username string) string {
	t.Helper()
	out, err := run(t, "--base-url", baseURL, "login", username, "--password", "password")
	require.NoError(t, err, out)
	m := tokenLine.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	return m[1]
}

func TestPostsAndFeed(t *testing.T) {
	baseURL := newBackend(t)
	token := login(t, baseURL, "alice")

	out, err := run(t, "--base-url", baseURL, "--token", token, "post", "create", "hello", "world")
	require.NoError(t, err, out)
	assert.Contains(t, out, "created post #1")
	assert.Contains(t, out, "hello world")

	out, err = run(t, "--base-url", baseURL, "--token", token, "post", "edit", "1", "hello", "again")
	require.NoError(t, err, out)
	assert.Contains(t, out, "[edited, yours]")

	out, err = run(t, "--base-url", baseURL, "--token", token, "feed")
	require.NoError(t, err, out)
	assert.Contains(t, out, "feed: 1 of 1 posts, page 1/1")
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "hello again")
	assert.Contains(t, out, "yours")

	out, err = run(t, "--base-url", baseURL, "feed")
	require.NoError(t, err, out)
	assert.NotContains(t, out, "yours")

	out, err = run(t, "--base-url", baseURL, "--token", token, "wall", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "@alice (user 1) [you]")

	out, err = run(t, "--base-url", baseURL, "--token", token, "post", "delete", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "no posts yet")
}

func TestFeedPaging(t *testing.T) {
	baseURL := newBackend(t)
	token := login(t, baseURL, "alice")

	for i := 0; i < 5; i++ {
		_, err := run(t, "--base-url", baseURL, "--token", token, "post", "create", "post")
		require.NoError(t, err)
	}

	out, err := run(t, "--base-url", baseURL, "--page-size", "2", "feed")
	require.NoError(t, err, out)
	assert.Contains(t, out, "feed: 2 of 5 posts, page 1/3")
	assert.Contains(t, out, "more posts available")

	out, err = run(t, "--base-url", baseURL, "--page-size", "2", "feed", "--pages", "5")
	require.NoError(t, err, out)
	assert.Contains(t, out, "feed: 5 of 5 posts, page 3/3")
	assert.NotContains(t, out, "more posts available")
}

func TestRequiresLogin(t *testing.T) {
	baseURL := newBackend(t)

	_, err := run(t, "--base-url", baseURL, "post", "create", "anonymous")
	assert.ErrorIs(t, err, client.ErrNotLoggedIn)

	_, err = run(t, "--base-url", baseURL, "login", "alice", "--password", "wrong")
	assert.True(t, client.IsUnauthorized(err))
}

func TestOpenSessionClosesStoreOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	ctx := context.Background()

	a := &app{logger: zap.NewNop(), api: client.New(zap.NewNop(), srv.URL, time.Second)}
	store := feed.New(a.api, "1", 10, zap.NewNop())

	session, err := a.openSession(ctx, store, "1", feed.PolicyLocalPatch)
	require.Error(t, err)
	assert.Nil(t, session)

	_, err = store.RequestPage(ctx, 0, feed.Replace)
	assert.ErrorIs(t, err, feed.ErrStoreClosed)
}

func TestSocialCommands(t *testing.T) {
	baseURL := newBackend(t)
	alice := login(t, baseURL, "alice")
	bob := login(t, baseURL, "bob")

	_, err := run(t, "--base-url", baseURL, "--token", alice, "post", "create", "hi")
	require.NoError(t, err)

	out, err := run(t, "--base-url", baseURL, "--token", bob, "comment", "add", "1", "nice", "post")
	require.NoError(t, err, out)
	assert.Contains(t, out, "added comment #1")

	out, err = run(t, "--base-url", baseURL, "comment", "list", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "@bob")
	assert.Contains(t, out, "nice post")

	out, err = run(t, "--base-url", baseURL, "--token", alice, "friend", "request", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "PENDING")

	out, err = run(t, "--base-url", baseURL, "--token", bob, "friend", "accept", "1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "ACCEPTED")

	out, err = run(t, "--base-url", baseURL, "--token", alice, "friend", "list")
	require.NoError(t, err, out)
	assert.Contains(t, out, "bob")

	out, err = run(t, "--base-url", baseURL, "--token", alice, "users", "search", "BO")
	require.NoError(t, err, out)
	assert.Contains(t, out, "bob@example.com")
	assert.NotContains(t, out, "alice@example.com")
}
