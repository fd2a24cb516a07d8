package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/pkg/utils"
)

// notRequiredAuthMiddleware identifies the caller when a valid token is sent
// and lets anonymous requests through.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.Next()
		return
	}

	claims, err := utils.VerifyJWT(accessToken, h.secret)
	if err != nil {
		c.Next()
		return
	}

	c.Set(userIDKey, model.ID(claims.UserID))

	c.Next()
}
