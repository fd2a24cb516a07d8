package dto

import "github.com/pandaloves/social-posts-app/internal/model"

// PostsPage is the page envelope served by GET /posts. Field names follow the
// Spring Data page shape the web client was written against.
type PostsPage struct {
	Content       []*model.Post `json:"content"`
	TotalPages    int           `json:"totalPages"`
	TotalElements int           `json:"totalElements"`
	Number        int           `json:"number"`
	Size          int           `json:"size"`
}

func NewPostsPage(posts []*model.Post, total int, page int, size int) PostsPage {
	if posts == nil {
		posts = []*model.Post{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}
	return PostsPage{
		Content:       posts,
		TotalPages:    totalPages,
		TotalElements: total,
		Number:        page,
		Size:          size,
	}
}
