package domain

// TicketState enumerates the laundry workflow states. Values mirror the
// numeric codes persisted in the document store.
type TicketState int

const (
	TicketStateReceived  TicketState = 1
	TicketStateInProcess TicketState = 2
	TicketStateReady     TicketState = 3
	TicketStateDelivered TicketState = 4
)

// Valid reports whether the state is one of the four workflow states.
func (s TicketState) Valid() bool {
	return s >= TicketStateReceived && s <= TicketStateDelivered
}

// Label returns the operator-facing label for the state.
func (s TicketState) Label() string {
	switch s {
	case TicketStateReceived:
		return "Recibido"
	case TicketStateInProcess:
		return "En proceso"
	case TicketStateReady:
		return "Listo"
	case TicketStateDelivered:
		return "Entregado"
	default:
		return "Desconocido"
	}
}

// Ticket is one laundry drop-off. Date and UpdatedAt keep the raw stored
// representation and must be read through CoerceTime; a nil Date marks a
// document that is excluded from every statistic.
type Ticket struct {
	ID          string
	UID         string
	State       TicketState
	Date        any
	UpdatedAt   any
	Description string
	Items       map[string]int
}

// HasDate reports whether the ticket carries any date value at all.
func (t Ticket) HasDate() bool {
	return t.Date != nil
}
