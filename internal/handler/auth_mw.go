package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/pkg/utils"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		errorResponse(c, http.StatusUnauthorized, errNotAuthorized.Error())
		c.Abort()
		return
	}

	claims, err := utils.VerifyJWT(accessToken, h.secret)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, errNotAuthorized.Error())
		c.Abort()
		return
	}

	c.Set(userIDKey, model.ID(claims.UserID))

	c.Next()
}
