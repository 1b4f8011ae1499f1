package board

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ticket mutations. Each one mutates the in-memory aggregate, commits it
// under the board's version check, and only then publishes a single
// realtime event. A failed or conflicted commit publishes nothing.

func (s *service) CreateTicket(ctx context.Context, board *Board, actor string, req CreateTicketRequest) (*Ticket, error) {
	now := time.Now().UTC()
	ticket := Ticket{
		ID:        uuid.NewString(),
		OwnerID:   actor,
		Color:     req.Color,
		Heading:   req.Heading,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Position != nil {
		ticket.Position = *req.Position
	}

	board.AddTicket(ticket)

	if err := s.repo.SaveBoard(board); err != nil {
		return nil, err
	}

	s.broadcast(EventTicketCreate, board.ID, actor, []Ticket{ticket})

	return &ticket, nil
}

func (s *service) UpdateTicket(ctx context.Context, board *Board, actor, ticketID string, patch TicketPatch) (*Ticket, error) {
	ticket, ok := board.TicketByID(ticketID)
	if !ok {
		return nil, ErrTicketNotFound
	}

	ticket.ApplyPatch(patch)

	if err := s.repo.SaveBoard(board); err != nil {
		return nil, err
	}

	updated := *ticket
	s.broadcast(EventTicketUpdate, board.ID, actor, []Ticket{updated})

	return &updated, nil
}

func (s *service) RemoveTicket(ctx context.Context, board *Board, actor, ticketID string) (*Ticket, error) {
	removed, err := board.RemoveTickets([]string{ticketID})
	if err != nil {
		return nil, ErrTicketNotFound
	}

	if err := s.repo.SaveBoard(board); err != nil {
		return nil, err
	}

	s.broadcast(EventTicketRemove, board.ID, actor, removed)

	return &removed[0], nil
}

// RemoveTickets is the atomic batch: validation happens against the
// aggregate before anything is touched, so one bad id means no removal
// and no commit. Success is one commit and one broadcast carrying the
// whole removed set.
func (s *service) RemoveTickets(ctx context.Context, board *Board, actor string, ticketIDs []string) ([]Ticket, error) {
	if len(ticketIDs) == 0 {
		return []Ticket{}, nil
	}

	removed, err := board.RemoveTickets(ticketIDs)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveBoard(board); err != nil {
		return nil, err
	}

	s.broadcast(EventTicketRemove, board.ID, actor, removed)

	return removed, nil
}

func (s *service) broadcast(event, boardID, actor string, tickets []Ticket) {
	s.bus.Publish(event, TicketEvent{
		BoardID: boardID,
		User:    actor,
		Tickets: tickets,
	})
}
