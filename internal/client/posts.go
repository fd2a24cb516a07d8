package client

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/feed"
	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/normalize"
)

var (
	_ feed.Fetcher = (*Client)(nil)
	_ feed.PostAPI = (*Client)(nil)
	_ feed.UserAPI = (*Client)(nil)
)

// FetchPosts returns the raw page so the store can normalize whatever shape
// the backend answers with.
func (c *Client) FetchPosts(ctx context.Context, q feed.PostsQuery) ([]byte, error) {
	query := url.Values{}
	if q.SubjectID != "" {
		query.Set("userId", string(q.SubjectID))
	}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("size", strconv.Itoa(q.Size))
	if q.Sort != "" {
		query.Set("sort", q.Sort)
	}

	return c.do(ctx, http.MethodGet, "/posts", query, nil)
}

func (c *Client) CreatePost(ctx context.Context, userID model.ID, text string) (model.Post, error) {
	body, err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(string(userID))+"/posts", nil, dto.CreatePostRequest{Text: text})
	if err != nil {
		return model.Post{}, err
	}
	return normalize.Record(body)
}

// UpdatePost returns the zero Post when the backend answers without a body.
func (c *Client) UpdatePost(ctx context.Context, id model.ID, text string) (model.Post, error) {
	body, err := c.do(ctx, http.MethodPut, "/posts/"+url.PathEscape(string(id)), nil, dto.UpdatePostRequest{Text: &text})
	if err != nil {
		return model.Post{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return model.Post{}, nil
	}
	return normalize.Record(body)
}

func (c *Client) DeletePost(ctx context.Context, id model.ID) error {
	_, err := c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(string(id)), nil, nil)
	return err
}
