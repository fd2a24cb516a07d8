package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/service"
)

var (
	errNotAuthorized   = errors.New("user is not authorized")
	errInvalidID       = errors.New("invalid ID")
	errUnsupportedSort = errors.New("only createdAt,desc sorting is supported")
)

func errorResponse(c *gin.Context, status int, details string) {
	c.JSON(status, dto.NewBasicResponse(false, details).WithRequestID(c.GetString(requestIDKey)))
}

// statusOf maps service errors onto HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrFriendshipNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrFriendshipExists),
		errors.Is(err, service.ErrFriendshipNotPending):
		return http.StatusConflict
	case errors.Is(err, service.ErrSelfFriendship),
		errors.Is(err, service.ErrPageOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
