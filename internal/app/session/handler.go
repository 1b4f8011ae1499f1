package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	CreateSession(c *gin.Context)
	DeleteSession(c *gin.Context)
	Me(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary Create session
// @Description Issue a session key for the given username, creating the user on first sight
// @Tags Session
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions [post]
func (h *handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, u, err := h.service.CreateSessionAndUser(req.Username, c.GetHeader("User-Agent"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":        u,
		"session_key": session.SessionKey,
		"created_at":  session.CreatedAt,
	})
}

// @Summary Delete session
// @Description End the session identified by the presented session key
// @Tags Session
// @Produce json
// @Router /api/sessions [delete]
func (h *handler) DeleteSession(c *gin.Context) {
	sessionKey := SessionKeyFromRequest(c)
	if sessionKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session key is required"})
		return
	}

	if err := h.service.EndSession(c.Request.Context(), sessionKey); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

// @Summary Current user
// @Description Resolve the presented session key to its user
// @Tags Session
// @Produce json
// @Router /api/users/me [get]
func (h *handler) Me(c *gin.Context) {
	sessionKey := SessionKeyFromRequest(c)
	if sessionKey == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session key is required"})
		return
	}

	u, err := h.service.GetUserBySessionKey(c.Request.Context(), sessionKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session not found"})
		return
	}

	c.JSON(http.StatusOK, u)
}

// SessionKeyFromRequest extracts the session key from the Authorization
// bearer header, falling back to the session_key query parameter (used by
// the websocket upgrade, which cannot set headers from the browser).
func SessionKeyFromRequest(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && auth[:len(prefix)] == prefix {
		return auth[len(prefix):]
	}
	return c.Query("session_key")
}
