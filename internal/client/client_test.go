package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/feed"
	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/pkg/utils"
)

type recorded struct {
	method    string
	path      string
	query     string
	auth      string
	requestID string
	body      string
}

type callLog struct {
	mu    sync.Mutex
	calls []recorded
}

func (l *callLog) all() []recorded {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recorded(nil), l.calls...)
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *callLog) {
	t.Helper()
	log := &callLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		log.mu.Lock()
		log.calls = append(log.calls, recorded{
			method:    r.Method,
			path:      r.URL.Path,
			query:     r.URL.RawQuery,
			auth:      r.Header.Get("Authorization"),
			requestID: r.Header.Get(RequestIDHeader),
			body:      string(body),
		})
		log.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return New(nil, srv.URL+"/", 5*time.Second), log
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestFetchPostsQuery(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})
	c.SetToken("tok")

	raw, err := c.FetchPosts(context.Background(), feed.PostsQuery{SubjectID: "3", Page: 2, Size: 10, Sort: feed.DefaultSort})
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[]}`, string(raw))

	require.Len(t, calls.all(), 1)
	got := calls.all()[0]
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/posts", got.path)
	assert.Equal(t, "page=2&size=10&sort=createdAt%2Cdesc&userId=3", got.query)
	assert.Equal(t, "Bearer tok", got.auth)
	assert.NotEmpty(t, got.requestID)
}

func TestStatusError(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, dto.NewBasicResponse(false, "post not found"))
	})

	err := c.DeletePost(context.Background(), "9")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 404, se.StatusCode())
	assert.Equal(t, "post not found", se.Details)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
}

func TestStoreOverClient(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "0":
			_, _ = w.Write([]byte(`{"content":[
				{"id":1,"text":"a","author":{"id":1,"username":"Mia"},"createdAt":"2024-05-01T10:00:00Z"},
				{"id":2,"text":"b","user":{"id":2,"username":"Test"},"createdAt":"2024-05-01T09:00:00Z"}
			],"totalPages":3,"totalElements":6,"number":0,"size":2}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	store := feed.New(c, "", 2, nil)
	before, err := store.RequestPage(context.Background(), 0, feed.Replace)
	require.NoError(t, err)
	require.Len(t, before.Items, 2)
	assert.Equal(t, "Mia", before.Items[0].Author.Username)
	assert.Equal(t, "Test", before.Items[1].Author.Username)

	after, err := store.RequestPage(context.Background(), 0, feed.Append)
	var fe *feed.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Page)
	assert.Equal(t, 500, fe.Status)
	assert.Equal(t, before, after)
}

func TestCreateAndUpdatePost(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			writeJSON(w, http.StatusCreated, map[string]any{
				"id": 11, "content": "hello", "createdAt": "2024-05-01T10:00:00", "userId": 4, "username": "Quyen",
			})
		case http.MethodPut:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	p, err := c.CreatePost(context.Background(), "4", "hello")
	require.NoError(t, err)
	assert.Equal(t, model.ID("11"), p.ID)
	assert.Equal(t, model.UserRef{ID: "4", Username: "Quyen"}, p.Author)

	updated, err := c.UpdatePost(context.Background(), "11", "bye")
	require.NoError(t, err)
	assert.Equal(t, model.Post{}, updated)

	require.Len(t, calls.all(), 2)
	assert.Equal(t, "/users/4/posts", calls.all()[0].path)
	assert.JSONEq(t, `{"text":"hello"}`, calls.all()[0].body)
	assert.Equal(t, "/posts/11", calls.all()[1].path)
	assert.JSONEq(t, `{"text":"bye"}`, calls.all()[1].body)
}

func TestLogin(t *testing.T) {
	token, err := utils.IssueJWT("5", "mia", time.Hour, []byte("s"))
	require.NoError(t, err)

	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": token})
	})

	_, err = c.Me()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	resp, err := c.Login(context.Background(), "mia", "secret")
	require.NoError(t, err)
	assert.Equal(t, model.ID("5"), resp.UserID)
	assert.Equal(t, token, c.Token())

	me, err := c.Me()
	require.NoError(t, err)
	assert.Equal(t, "mia", me.Username)

	assert.Equal(t, "/users/login", calls.all()[0].path)
	assert.Empty(t, calls.all()[0].auth)

	c.Logout()
	assert.Empty(t, c.Token())
}

func TestSearchUsers(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"username":"Mia","email":"mia@example.com"},
			{"id":2,"username":"Test","email":"test@example.com"},
			{"id":3,"username":"Quyen","email":"q@mia.se"}
		]`))
	})

	users, err := c.SearchUsers(context.Background(), " MIA ")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.ID("1"), users[0].ID)
	assert.Equal(t, model.ID("3"), users[1].ID)

	_, err = c.SearchUsers(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestComments(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"id":1,"commentText":"nice","createdAt":"2024-05-01T10:00:00","username":"Mia"}`))
			return
		}
		_, _ = w.Write([]byte(`[
			{"id":2,"commentText":"second","createdAt":"2024-05-01T11:00:00","username":"Test"},
			{"id":1,"commentText":"first","createdAt":"2024-05-01T10:00:00","username":"Mia"}
		]`))
	})

	added, err := c.AddComment(context.Background(), "7", "nice")
	require.NoError(t, err)
	assert.Equal(t, model.ID("7"), added.PostID)
	assert.Equal(t, 10, added.CreatedAt.Hour())

	comments, err := c.ListComments(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].CommentText)
	assert.Equal(t, "second", comments[1].CommentText)

	assert.JSONEq(t, `{"postId":"7","commentText":"nice"}`, calls.all()[0].body)
	assert.Equal(t, "/comments/post/7", calls.all()[1].path)
}

func TestFriendships(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		status := "PENDING"
		switch r.URL.Path {
		case "/friendships/3/accept":
			status = "ACCEPTED"
		case "/friendships/3/reject":
			status = "REJECTED"
		case "/users/1/friends":
			_, _ = w.Write([]byte(`[{"id":3,"requester":"mia","addressee":"test","status":"ACCEPTED"}]`))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "requester": "mia", "addressee": "test", "status": status})
	})
	ctx := context.Background()

	f, err := c.RequestFriendship(ctx, "1", "2")
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipPending, f.Status)
	assert.JSONEq(t, `{"requesterUserId":"1","addresseeUserId":"2"}`, calls.all()[0].body)

	f, err = c.AcceptFriendship(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipAccepted, f.Status)

	f, err = c.RejectFriendship(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, model.FriendshipRejected, f.Status)

	friends, err := c.ListFriends(ctx, "1")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, model.ID("3"), friends[0].ID)
}
