package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pandaloves/social-posts-app/internal/dto"
)

func (h *Handler) commentsCreate(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	createdComment, err := h.services.Comment.Create(c.Request.Context(), userID, input)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, createdComment)
}

func (h *Handler) commentsGet(c *gin.Context) {
	postID, ok := pathID(c, "postID")
	if !ok {
		errorResponse(c, http.StatusBadRequest, errInvalidID.Error())
		return
	}

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), postID)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) friendshipsRequest(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	var input dto.FriendshipRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	friendship, err := h.services.Friendship.Request(c.Request.Context(), userID, input)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, friendship)
}

func (h *Handler) friendshipsAccept(c *gin.Context) {
	h.friendshipsRespond(c, true)
}

func (h *Handler) friendshipsReject(c *gin.Context) {
	h.friendshipsRespond(c, false)
}

func (h *Handler) friendshipsRespond(c *gin.Context, accept bool) {
	userID := h.getUserIDFromRequest(c)

	id, ok := pathID(c, "friendshipID")
	if !ok {
		errorResponse(c, http.StatusBadRequest, errInvalidID.Error())
		return
	}

	friendship, err := h.services.Friendship.Respond(c.Request.Context(), userID, id, accept)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, friendship)
}

func (h *Handler) friendshipsGetFriends(c *gin.Context) {
	userID, ok := pathID(c, "userID")
	if !ok {
		errorResponse(c, http.StatusBadRequest, errInvalidID.Error())
		return
	}

	friendships, err := h.services.Friendship.FindFriends(c.Request.Context(), userID)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, friendships)
}
