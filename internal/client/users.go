package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/model"
)

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	var resp dto.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/users/login", nil, dto.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	c.SetToken(resp.Token)
	if resp.UserID == "" {
		if claims, err := c.Me(); err == nil {
			resp.UserID = model.ID(claims.UserID)
		}
	}
	return resp, nil
}

func (c *Client) Logout() {
	c.SetToken("")
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (model.User, error) {
	var user model.User
	err := c.doJSON(ctx, http.MethodPost, "/users", nil, req, &user)
	return user, err
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.doJSON(ctx, http.MethodGet, "/users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id model.ID) (model.User, error) {
	var user model.User
	err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(string(id)), nil, nil, &user)
	return user, err
}

func (c *Client) UpdateUser(ctx context.Context, id model.ID, req dto.UpdateUserRequest) (model.User, error) {
	var user model.User
	err := c.doJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(string(id)), nil, req, &user)
	return user, err
}

func (c *Client) DeleteUser(ctx context.Context, id model.ID) error {
	_, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(string(id)), nil, nil)
	return err
}

// SearchUsers matches query against usernames and emails, ignoring case. The
// backend has no search endpoint, so the whole user list is filtered here.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, ErrEmptyQuery
	}

	users, err := c.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]model.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Username), query) || strings.Contains(strings.ToLower(u.Email), query) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}
