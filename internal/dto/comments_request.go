package dto

type CreateCommentRequest struct {
	PostID      string `json:"postId" binding:"required"`
	CommentText string `json:"commentText" binding:"required,min=1,max=500"`
}
