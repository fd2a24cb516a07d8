package dto

import "github.com/pandaloves/social-posts-app/internal/model"

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token  string   `json:"token"`
	UserID model.ID `json:"userId"`
}

// UpdateUserRequest is the profile edit body. Empty fields are left unchanged.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"omitempty,min=2,max=50"`
	Email    string `json:"email" binding:"omitempty,email"`
	Bio      string `json:"bio" binding:"omitempty,max=300"`
}

type FriendshipRequest struct {
	RequesterUserID string `json:"requesterUserId" binding:"required"`
	AddresseeUserID string `json:"addresseeUserId" binding:"required"`
}
