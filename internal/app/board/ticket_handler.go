package board

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary List tickets
// @Tags Ticket
// @Produce json
// @Success 200 {array} Ticket
// @Router /api/boards/{board_id}/tickets [get]
func (h *handler) ListTickets(c *gin.Context) {
	board, _, ok := h.resolveBoard(c)
	if !ok {
		return
	}

	tickets := board.Tickets
	if tickets == nil {
		tickets = TicketList{}
	}

	c.JSON(http.StatusOK, tickets)
}

// @Summary Create ticket
// @Description Requires owner or member; broadcasts ticket:create on success
// @Tags Ticket
// @Accept json
// @Produce json
// @Success 201 {object} Ticket
// @Router /api/boards/{board_id}/tickets [post]
func (h *handler) CreateTicket(c *gin.Context) {
	board, u, ok := h.resolveBoard(c, RelationMember, RelationOwner)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ticket, err := h.service.CreateTicket(c.Request.Context(), board, u.ID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// @Summary Remove tickets
// @Description Atomic batch removal of ?tickets=id1,id2; one unknown id aborts with 400 and no board change; broadcasts a single ticket:remove
// @Tags Ticket
// @Produce json
// @Success 200 {array} Ticket
// @Router /api/boards/{board_id}/tickets [delete]
func (h *handler) RemoveTickets(c *gin.Context) {
	board, u, ok := h.resolveBoard(c, RelationMember, RelationOwner)
	if !ok {
		return
	}

	ids := splitTicketIDs(c.Query("tickets"))

	removed, err := h.service.RemoveTickets(c.Request.Context(), board, u.ID, ids)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, removed)
}

// @Summary Get ticket
// @Tags Ticket
// @Produce json
// @Success 200 {object} Ticket
// @Router /api/boards/{board_id}/tickets/{ticket_id} [get]
func (h *handler) GetTicket(c *gin.Context) {
	board, _, ok := h.resolveBoard(c)
	if !ok {
		return
	}

	ticket, found := board.TicketByID(c.Param("ticket_id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// @Summary Update ticket
// @Description Partial update: absent or empty fields keep their prior value; broadcasts ticket:update on success
// @Tags Ticket
// @Accept json
// @Produce json
// @Success 200 {object} Ticket
// @Router /api/boards/{board_id}/tickets/{ticket_id} [put]
func (h *handler) UpdateTicket(c *gin.Context) {
	board, u, ok := h.resolveBoard(c, RelationMember, RelationOwner)
	if !ok {
		return
	}

	var patch TicketPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ticket, err := h.service.UpdateTicket(c.Request.Context(), board, u.ID, c.Param("ticket_id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}

// @Summary Remove ticket
// @Description Requires owner or member; broadcasts ticket:remove with the removed snapshot
// @Tags Ticket
// @Produce json
// @Success 200 {object} Ticket
// @Router /api/boards/{board_id}/tickets/{ticket_id} [delete]
func (h *handler) RemoveTicket(c *gin.Context) {
	board, u, ok := h.resolveBoard(c, RelationMember, RelationOwner)
	if !ok {
		return
	}

	ticket, err := h.service.RemoveTicket(c.Request.Context(), board, u.ID, c.Param("ticket_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}
