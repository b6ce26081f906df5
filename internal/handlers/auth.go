package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"homewatch/internal/service"
)

type signInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// signUp godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      signInput  true  "credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "invalid input body", err)
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to create user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// signIn godoc
// @Summary      Obtain an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      signInput  true  "credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logAndJSONError(c, http.StatusBadRequest, "invalid input body", err)
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
			h.logAndJSONError(c, http.StatusUnauthorized, "invalid credentials", err)
		default:
			h.logAndJSONError(c, http.StatusInternalServerError, "failed to generate token", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
