package client

import (
	"context"
	"net/http"
	"net/url"
	"sort"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/normalize"
)

// commentWire accepts the zone-less timestamps of the older backend.
type commentWire struct {
	ID          model.ID `json:"id"`
	PostID      model.ID `json:"postId"`
	CommentText string   `json:"commentText"`
	Username    string   `json:"username"`
	CreatedAt   string   `json:"createdAt"`
}

func (w commentWire) toModel(postID model.ID) model.Comment {
	c := model.Comment{
		ID:          w.ID,
		PostID:      w.PostID,
		CommentText: w.CommentText,
		Username:    w.Username,
	}
	if c.PostID == "" {
		c.PostID = postID
	}
	if t, ok := normalize.ParseTime(w.CreatedAt); ok {
		c.CreatedAt = t
	}
	return c
}

func (c *Client) AddComment(ctx context.Context, postID model.ID, text string) (model.Comment, error) {
	var w commentWire
	err := c.doJSON(ctx, http.MethodPost, "/comments", nil, dto.CreateCommentRequest{
		PostID:      string(postID),
		CommentText: text,
	}, &w)
	if err != nil {
		return model.Comment{}, err
	}
	return w.toModel(postID), nil
}

// ListComments returns the comments of a post, oldest first.
func (c *Client) ListComments(ctx context.Context, postID model.ID) ([]model.Comment, error) {
	var wire []commentWire
	if err := c.doJSON(ctx, http.MethodGet, "/comments/post/"+url.PathEscape(string(postID)), nil, nil, &wire); err != nil {
		return nil, err
	}

	comments := make([]model.Comment, 0, len(wire))
	for _, w := range wire {
		comments = append(comments, w.toModel(postID))
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (c *Client) RequestFriendship(ctx context.Context, requester, addressee model.ID) (model.Friendship, error) {
	var f model.Friendship
	err := c.doJSON(ctx, http.MethodPost, "/friendships", nil, dto.FriendshipRequest{
		RequesterUserID: string(requester),
		AddresseeUserID: string(addressee),
	}, &f)
	return f, err
}

func (c *Client) AcceptFriendship(ctx context.Context, id model.ID) (model.Friendship, error) {
	var f model.Friendship
	err := c.doJSON(ctx, http.MethodPut, "/friendships/"+url.PathEscape(string(id))+"/accept", nil, nil, &f)
	return f, err
}

func (c *Client) RejectFriendship(ctx context.Context, id model.ID) (model.Friendship, error) {
	var f model.Friendship
	err := c.doJSON(ctx, http.MethodPut, "/friendships/"+url.PathEscape(string(id))+"/reject", nil, nil, &f)
	return f, err
}

// ListFriends returns the accepted friendships of a user.
func (c *Client) ListFriends(ctx context.Context, userID model.ID) ([]model.Friendship, error) {
	var friends []model.Friendship
	if err := c.doJSON(ctx, http.MethodGet, "/users/"+url.PathEscape(string(userID))+"/friends", nil, nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}
