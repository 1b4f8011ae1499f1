package websocket

import (
	"net/http"

	"backend/internal/app/board"
	"backend/internal/app/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Gateway upgrades subscribers onto a board channel. The relation gate is
// identical to the REST read gate: a caller with no relation to the board
// sees the same 404 as for a missing board.
type Gateway struct {
	hub        *Hub
	sessionSvc session.Service
	boardSvc   board.Service
}

func NewGateway(hub *Hub, sessionSvc session.Service, boardSvc board.Service) *Gateway {
	return &Gateway{
		hub:        hub,
		sessionSvc: sessionSvc,
		boardSvc:   boardSvc,
	}
}

func (g *Gateway) ServeWS(c *gin.Context) {
	boardID := c.Query("board_id")
	if boardID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "board_id is required"})
		return
	}

	userID := ""
	if sessionKey := session.SessionKeyFromRequest(c); sessionKey != "" {
		u, err := g.sessionSvc.GetUserBySessionKey(c.Request.Context(), sessionKey)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session not found"})
			return
		}
		userID = u.ID
	}

	b, err := g.boardSvc.GetBoard(c.Request.Context(), boardID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		return
	}
	if !board.Resolve(userID, b).Satisfies() {
		c.JSON(http.StatusNotFound, gin.H{"error": "board not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.hub.logger.Errorw("Failed to upgrade connection",
			"board_id", boardID,
			"error", err,
		)
		return
	}
	defer conn.Close()

	client := &Client{
		hub:     g.hub,
		conn:    conn,
		ID:      generateClientID(),
		BoardID: boardID,
		UserID:  userID,
	}

	g.hub.register <- client

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
	g.hub.unregister <- client
}
