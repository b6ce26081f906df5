package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	authorizationHeader = "Authorization"
	userCtx             = "userId"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader(authorizationHeader)
	if header == "" {
		h.logAndJSONError(c, http.StatusUnauthorized, "empty auth header", nil)
		return
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		h.logAndJSONError(c, http.StatusUnauthorized, "invalid auth header", nil)
		return
	}

	userID, err := h.services.ParseToken(parts[1])
	if err != nil {
		h.logAndJSONError(c, http.StatusUnauthorized, "invalid token", err)
		return
	}

	c.Set(userCtx, userID)
	c.Next()
}
