package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/model"
)

const defaultSort = "createdAt,desc"

func (h *Handler) postsGet(c *gin.Context) {
	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if input.Sort != "" && input.Sort != defaultSort {
		errorResponse(c, http.StatusBadRequest, errUnsupportedSort.Error())
		return
	}

	page, err := h.services.Post.FindPage(c.Request.Context(), model.ID(input.UserID), input.Page, input.Size)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *Handler) postsCreate(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	authorID, ok := pathID(c, "userID")
	if !ok {
		errorResponse(c, http.StatusBadRequest, errInvalidID.Error())
		return
	}
	if authorID != userID {
		errorResponse(c, http.StatusForbidden, errNotAuthorized.Error())
		return
	}

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	createdPost, err := h.services.Post.Create(c.Request.Context(), authorID, input.Text)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, createdPost)
}

func (h *Handler) postsUpdate(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	postID, ok := pathID(c, "postID")
	if !ok {
		errorResponse(c, http.StatusBadRequest, errInvalidID.Error())
		return
	}

	var input dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	updatedPost, err := h.services.Post.Update(c.Request.Context(), userID, postID, *input.Text)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, updatedPost)
}

func (h *Handler) postsDelete(c *gin.Context) {
	userID := h.getUserIDFromRequest(c)

	postID, ok := pathID(c, "postID")
	if !ok {
		errorResponse(c, http.StatusBadRequest, errInvalidID.Error())
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), userID, postID); err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}
