package handler

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pandaloves/social-posts-app/internal/model"
	"github.com/pandaloves/social-posts-app/internal/service"
)

const (
	requestIDHeader = "X-Request-ID"

	userIDKey    = "user-id"
	requestIDKey = "request-id"
)

type Handler struct {
	logger   *zap.Logger
	services *service.Service
	secret   []byte
}

// New builds the handlers. secret verifies the bearer tokens.
func New(logger *zap.Logger, services *service.Service, secret []byte) *Handler {
	return &Handler{
		logger:   logger,
		services: services,
		secret:   secret,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), h.requestLogger)
	r.Use(cors.New(corsConfig(viper.GetString("client.origin"))))

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.usersLogin)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", h.postsGet)
		posts.PUT("/:postID", h.authMiddleware, h.postsUpdate)
		posts.DELETE("/:postID", h.authMiddleware, h.postsDelete)
	}

	users := r.Group("/users")
	{
		users.POST("", h.usersRegister)
		users.POST("/login", h.usersLogin)
		users.GET("", h.notRequiredAuthMiddleware, h.usersGetAll)

		user := users.Group("/:userID")
		{
			user.GET("", h.notRequiredAuthMiddleware, h.usersGet)
			user.PUT("", h.authMiddleware, h.usersUpdate)
			user.DELETE("", h.authMiddleware, h.usersDelete)
			user.POST("/posts", h.authMiddleware, h.postsCreate)
			user.GET("/friends", h.friendshipsGetFriends)
		}
	}

	comments := r.Group("/comments")
	{
		comments.POST("", h.authMiddleware, h.commentsCreate)
		comments.GET("/post/:postID", h.commentsGet)
	}

	friendships := r.Group("/friendships")
	{
		friendships.POST("", h.authMiddleware, h.friendshipsRequest)
		friendships.PUT("/:friendshipID/accept", h.authMiddleware, h.friendshipsAccept)
		friendships.PUT("/:friendshipID/reject", h.authMiddleware, h.friendshipsReject)
	}

	return r
}

// corsConfig allows the configured web origin, or any origin when none is set.
func corsConfig(origin string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
	}
	if origin == "" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = []string{origin}
	cfg.AllowCredentials = true
	return cfg
}

// requestLogger echoes the caller's request id, minting one when missing.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header(requestIDHeader, requestID)
	c.Set(requestIDKey, requestID)

	c.Next()

	h.logger.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", requestID),
	)
}

func (h *Handler) getUserIDFromRequest(c *gin.Context) model.ID {
	value, ok := c.Get(userIDKey)
	if !ok {
		return ""
	}

	id, ok := value.(model.ID)
	if !ok {
		return ""
	}

	return id
}

func pathID(c *gin.Context, name string) (model.ID, bool) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" {
		return "", false
	}
	return model.ID(id), true
}
