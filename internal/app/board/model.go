package board

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/app/user"
)

// Board is the aggregate root. Members and tickets are embedded as jsonb
// columns so that every mutation commits the whole aggregate under a
// single version check: tickets can never drift from their parent board.
type Board struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	Name      string     `json:"name" gorm:"not null"`
	Info      string     `json:"info"`
	IsPublic  bool       `json:"isPublic" gorm:"not null;default:false"`
	OwnerID   string     `json:"owner" gorm:"size:36;not null;index"`
	Members   StringList `json:"members" gorm:"type:jsonb;not null;default:'[]'"`
	Tickets   TicketList `json:"tickets" gorm:"type:jsonb;not null;default:'[]'"`
	Version   int64      `json:"version" gorm:"not null;default:0"`
	CreatedAt time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// Ticket lives inside exactly one board and has no identity outside it.
// Its id is assigned at creation and never changes.
type Ticket struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner"`
	Color     string    `json:"color"`
	Heading   string    `json:"heading"`
	Content   string    `json:"content"`
	Position  Position  `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TicketPatch carries a partial ticket update. Zero values leave the
// existing field unchanged (last-write-wins per field, not a full replace).
type TicketPatch struct {
	Color    string    `json:"color"`
	Heading  string    `json:"heading"`
	Content  string    `json:"content"`
	Position *Position `json:"position"`
}

func (t *Ticket) ApplyPatch(p TicketPatch) {
	if p.Color != "" {
		t.Color = p.Color
	}
	if p.Heading != "" {
		t.Heading = p.Heading
	}
	if p.Content != "" {
		t.Content = p.Content
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
	t.UpdatedAt = time.Now().UTC()
}

func (b *Board) IsOwner(userID string) bool {
	return userID != "" && userID == b.OwnerID
}

func (b *Board) HasMember(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range b.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// RemoveMember drops the user from the member list. Removing a user who is
// not a member is a no-op, mirroring a set pull.
func (b *Board) RemoveMember(userID string) {
	members := b.Members[:0]
	for _, id := range b.Members {
		if id != userID {
			members = append(members, id)
		}
	}
	b.Members = members
}

// ticketIndex maps ticket id to slice position. Rebuilt per lookup batch;
// the aggregate is always small enough that this beats keeping a parallel
// structure consistent through jsonb round-trips.
func (b *Board) ticketIndex() map[string]int {
	idx := make(map[string]int, len(b.Tickets))
	for i, t := range b.Tickets {
		idx[t.ID] = i
	}
	return idx
}

func (b *Board) TicketByID(id string) (*Ticket, bool) {
	i, ok := b.ticketIndex()[id]
	if !ok {
		return nil, false
	}
	return &b.Tickets[i], true
}

func (b *Board) AddTicket(t Ticket) {
	b.Tickets = append(b.Tickets, t)
}

// RemoveTickets validates every id against the current ticket set before
// touching anything: one unknown id aborts the whole batch and leaves the
// board unchanged. Removed snapshots come back in input order, duplicates
// collapsed.
func (b *Board) RemoveTickets(ids []string) ([]Ticket, error) {
	idx := b.ticketIndex()

	removing := make(map[string]bool, len(ids))
	removed := make([]Ticket, 0, len(ids))
	for _, id := range ids {
		i, ok := idx[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTicketIDs, id)
		}
		if removing[id] {
			continue
		}
		removing[id] = true
		removed = append(removed, b.Tickets[i])
	}

	kept := make(TicketList, 0, len(b.Tickets)-len(removed))
	for _, t := range b.Tickets {
		if !removing[t.ID] {
			kept = append(kept, t)
		}
	}
	b.Tickets = kept

	return removed, nil
}

// StringList is a jsonb-backed string slice.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// TicketList is a jsonb-backed ticket sequence. Slice order is display
// order.
type TicketList []Ticket

func (l TicketList) Value() (driver.Value, error) {
	if l == nil {
		l = TicketList{}
	}
	return json.Marshal(l)
}

func (l *TicketList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

func scanJSON(value, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

type CreateBoardRequest struct {
	Name     string `json:"name" binding:"required"`
	Info     string `json:"info"`
	IsPublic bool   `json:"isPublic"`
}

type UpdateBoardRequest struct {
	Name     string `json:"name" binding:"required"`
	Info     string `json:"info"`
	IsPublic bool   `json:"isPublic"`
}

type AddMemberRequest struct {
	ID string `json:"id" binding:"required"`
}

type CreateTicketRequest struct {
	Color    string    `json:"color"`
	Heading  string    `json:"heading"`
	Content  string    `json:"content"`
	Position *Position `json:"position"`
}

// BoardSummary is the listing shape: no tickets field at all, owner and
// members by id only.
type BoardSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Info      string    `json:"info"`
	IsPublic  bool      `json:"isPublic"`
	Owner     string    `json:"owner"`
	Members   []string  `json:"members"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Board) Summary() BoardSummary {
	members := b.Members
	if members == nil {
		members = StringList{}
	}
	return BoardSummary{
		ID:        b.ID,
		Name:      b.Name,
		Info:      b.Info,
		IsPublic:  b.IsPublic,
		Owner:     b.OwnerID,
		Members:   members,
		Version:   b.Version,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// BoardDetail is the single-board shape with owner and members populated
// as user documents.
type BoardDetail struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Info      string       `json:"info"`
	IsPublic  bool         `json:"isPublic"`
	Owner     *user.User   `json:"owner"`
	Members   []*user.User `json:"members"`
	Tickets   []Ticket     `json:"tickets"`
	Version   int64        `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
