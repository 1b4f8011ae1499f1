package board

// Realtime event names, one logical channel per board.
const (
	EventTicketCreate = "ticket:create"
	EventTicketUpdate = "ticket:update"
	EventTicketRemove = "ticket:remove"
)

// TicketEvent is the broadcast payload. Exactly one event is published per
// successful mutation; a batch removal carries the full removed set in one
// event.
type TicketEvent struct {
	BoardID string   `json:"board_id"`
	User    string   `json:"user"`
	Tickets []Ticket `json:"tickets"`
}

// Broadcaster is the capability the mutation engine publishes through.
// Injected so tests can swap in a recording double.
type Broadcaster interface {
	Publish(event string, data interface{})
}
