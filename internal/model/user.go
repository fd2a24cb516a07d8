package model

import "time"

type User struct {
	ID           ID        `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Ref returns the snapshot embedded in the user's posts.
func (u User) Ref() UserRef {
	return UserRef{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipRejected FriendshipStatus = "REJECTED"
)

type Friendship struct {
	ID          ID               `json:"id"`
	RequesterID ID               `json:"requesterId"`
	AddresseeID ID               `json:"addresseeId"`
	Requester   string           `json:"requester"`
	Addressee   string           `json:"addressee"`
	Status      FriendshipStatus `json:"status"`
}
