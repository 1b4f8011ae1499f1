package board

import (
	"errors"
	"net/http"
	"strings"

	"backend/internal/app/user"
	"backend/internal/middleware"
	"backend/internal/providers/screenshot"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListBoards(c *gin.Context)
	CreateBoard(c *gin.Context)
	GetBoard(c *gin.Context)
	UpdateBoard(c *gin.Context)
	DeleteBoard(c *gin.Context)

	GetBoardUsers(c *gin.Context)
	AddMember(c *gin.Context)
	GetBoardUser(c *gin.Context)
	RemoveMember(c *gin.Context)

	ListTickets(c *gin.Context)
	CreateTicket(c *gin.Context)
	RemoveTickets(c *gin.Context)
	GetTicket(c *gin.Context)
	UpdateTicket(c *gin.Context)
	RemoveTicket(c *gin.Context)

	GetScreenshot(c *gin.Context)
}

type handler struct {
	service     Service
	screenshotP *screenshot.Provider
}

func NewHandler(service Service, screenshotP *screenshot.Provider) Handler {
	return &handler{
		service:     service,
		screenshotP: screenshotP,
	}
}

// resolveBoard loads the board and gates it on the caller's relation.
// A denied caller gets the same 404 as a missing board so that private
// board ids never read as "exists but forbidden".
func (h *handler) resolveBoard(c *gin.Context, required ...Relation) (*Board, *user.User, bool) {
	board, err := h.service.GetBoard(c.Request.Context(), c.Param("board_id"))
	if err != nil {
		notFound(c)
		return nil, nil, false
	}

	u := middleware.CurrentUser(c)
	userID := ""
	if u != nil {
		userID = u.ID
	}

	if !Resolve(userID, board).Satisfies(required...) {
		notFound(c)
		return nil, nil, false
	}

	return board, u, true
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "board not found"})
}

func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "board was modified concurrently"})
	case errors.Is(err, ErrInvalidTicketIDs):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parameters"})
	case errors.Is(err, ErrAlreadyMember):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists on board"})
	case errors.Is(err, ErrTicketNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
	case errors.Is(err, user.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, ErrNotFound):
		notFound(c)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// @Summary List boards
// @Description List boards visible to the caller: public only when anonymous, the owner/member/public union otherwise
// @Tags Board
// @Produce json
// @Success 200 {array} BoardSummary
// @Router /api/boards [get]
func (h *handler) ListBoards(c *gin.Context) {
	userID := ""
	if u := middleware.CurrentUser(c); u != nil {
		userID = u.ID
	}

	boards, err := h.service.ListBoards(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list boards"})
		return
	}

	summaries := make([]BoardSummary, 0, len(boards))
	for _, b := range boards {
		summaries = append(summaries, b.Summary())
	}

	c.JSON(http.StatusOK, summaries)
}

// @Summary Create board
// @Tags Board
// @Accept json
// @Produce json
// @Success 201 {object} BoardSummary
// @Router /api/boards [post]
func (h *handler) CreateBoard(c *gin.Context) {
	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	owner := middleware.CurrentUser(c)

	board, err := h.service.CreateBoard(c.Request.Context(), owner, req.Name, req.Info, req.IsPublic)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, board.Summary())
}

// @Summary Get board
// @Description Board with owner and members populated; denied access reads as 404
// @Tags Board
// @Produce json
// @Success 200 {object} BoardDetail
// @Failure 404 {object} user.ErrorResponse
// @Router /api/boards/{board_id} [get]
func (h *handler) GetBoard(c *gin.Context) {
	board, _, ok := h.resolveBoard(c)
	if !ok {
		return
	}

	detail, err := h.service.PopulateBoard(board)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// @Summary Update board
// @Description Replace name, info and isPublic; requires owner; 409 when the version is stale
// @Tags Board
// @Accept json
// @Produce json
// @Router /api/boards/{board_id} [put]
func (h *handler) UpdateBoard(c *gin.Context) {
	board, _, ok := h.resolveBoard(c, RelationOwner)
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.UpdateBoard(c.Request.Context(), board, req.Name, req.Info, req.IsPublic); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, board.Summary())
}

// @Summary Delete board
// @Description Remove the board and all its tickets; requires owner
// @Tags Board
// @Produce json
// @Router /api/boards/{board_id} [delete]
func (h *handler) DeleteBoard(c *gin.Context) {
	board, _, ok := h.resolveBoard(c, RelationOwner)
	if !ok {
		return
	}

	if err := h.service.DeleteBoard(c.Request.Context(), board); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, board.Summary())
}

// @Summary Board users
// @Tags Board
// @Produce json
// @Router /api/boards/{board_id}/users [get]
func (h *handler) GetBoardUsers(c *gin.Context) {
	board, _, ok := h.resolveBoard(c)
	if !ok {
		return
	}

	detail, err := h.service.PopulateBoard(board)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"owner":   detail.Owner,
		"members": detail.Members,
	})
}

// @Summary Add member
// @Description Requires owner; rejects users already on the board
// @Tags Board
// @Accept json
// @Produce json
// @Router /api/boards/{board_id}/users [post]
func (h *handler) AddMember(c *gin.Context) {
	board, _, ok := h.resolveBoard(c, RelationOwner)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	added, err := h.service.AddMember(c.Request.Context(), board, req.ID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user not found"})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, added)
}

// @Summary Board user
// @Description Returns the user only when owner or member of this board
// @Tags Board
// @Produce json
// @Router /api/boards/{board_id}/users/{user_id} [get]
func (h *handler) GetBoardUser(c *gin.Context) {
	board, _, ok := h.resolveBoard(c)
	if !ok {
		return
	}

	found, err := h.service.LookupMemberOrOwner(board, c.Param("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

// @Summary Remove member
// @Description Requires owner; removing a non-member is a no-op that still succeeds
// @Tags Board
// @Produce json
// @Router /api/boards/{board_id}/users/{user_id} [delete]
func (h *handler) RemoveMember(c *gin.Context) {
	board, _, ok := h.resolveBoard(c, RelationOwner)
	if !ok {
		return
	}

	removed, err := h.service.RemoveMember(c.Request.Context(), board, c.Param("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, removed)
}

// @Summary Board screenshot
// @Description Streams the external renderer's response through; 503 when the renderer is unreachable
// @Tags Board
// @Produce png
// @Router /api/boards/{board_id}/screenshot [get]
func (h *handler) GetScreenshot(c *gin.Context) {
	board, _, ok := h.resolveBoard(c)
	if !ok {
		return
	}

	resp, err := h.screenshotP.Fetch(c.Request.Context(), board.ID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "screenshot service unavailable"})
		return
	}
	defer resp.Body.Close()

	c.DataFromReader(resp.StatusCode, resp.ContentLength,
		resp.Header.Get("Content-Type"), resp.Body, nil)
}

func splitTicketIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
