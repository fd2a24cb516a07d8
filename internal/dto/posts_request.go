package dto

// CreatePostRequest is the body of POST /users/{id}/posts.
type CreatePostRequest struct {
	Text string `json:"text" binding:"required,min=1,max=1000"`
}

// UpdatePostRequest is the body of PUT /posts/{id}.
type UpdatePostRequest struct {
	Text *string `json:"text" binding:"required,min=1,max=1000"`
}

// GetPostsRequest is bound from the query string of GET /posts.
type GetPostsRequest struct {
	UserID string `form:"userId"`
	Page   int    `form:"page" binding:"gte=0"`
	Size   int    `form:"size" binding:"gte=0"`
	Sort   string `form:"sort"`
}
