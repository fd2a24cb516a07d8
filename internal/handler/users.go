package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pandaloves/social-posts-app/internal/dto"
	"github.com/pandaloves/social-posts-app/internal/model"
)

func (h *Handler) usersRegister(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.services.User.Register(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) usersLogin(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.services.User.Login(c.Request.Context(), input)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

// usersGetAll hides email addresses from anonymous callers.
func (h *Handler) usersGetAll(c *gin.Context) {
	viewerID := h.getUserIDFromRequest(c)

	users, err := h.services.User.FindAll(c.Request.Context())
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	resp := make([]model.User, 0, len(users))
	for _, u := range users {
		resp = append(resp, visibleUser(u, viewerID))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) usersGet(c *gin.Context) {
	viewerID := h.getUserIDFromRequest(c)

	id, ok := pathID(c, "userID")
	if !ok {
		errorResponse(c, http.StatusBadRequest, errInvalidID.Error())
		return
	}

	user, err := h.services.User.FindByID(c.Request.Context(), id)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, visibleUser(user, viewerID))
}

func (h *Handler) usersUpdate(c *gin.Context) {
	viewerID := h.getUserIDFromRequest(c)

	id, ok := pathID(c, "userID")
	if !ok {
		errorResponse(c, http.StatusBadRequest, errInvalidID.Error())
		return
	}

	var input dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.services.User.Update(c.Request.Context(), viewerID, id, input)
	if err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) usersDelete(c *gin.Context) {
	viewerID := h.getUserIDFromRequest(c)

	id, ok := pathID(c, "userID")
	if !ok {
		errorResponse(c, http.StatusBadRequest, errInvalidID.Error())
		return
	}

	if err := h.services.User.Delete(c.Request.Context(), viewerID, id); err != nil {
		errorResponse(c, statusOf(err), err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

func visibleUser(u *model.User, viewerID model.ID) model.User {
	user := *u
	if viewerID == "" {
		user.Email = ""
	}
	return user
}
