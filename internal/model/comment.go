package model

import "time"

type Comment struct {
	ID          ID        `json:"id"`
	PostID      ID        `json:"postId"`
	CommentText string    `json:"commentText"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"createdAt"`
}
