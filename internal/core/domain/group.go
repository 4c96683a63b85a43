package domain

import (
	"fmt"
	"strconv"

	apperrors "github.com/lorrc/ticket-chat-backend/internal/core/errors"
)

// GroupKind discriminates the two kinds of broadcast groups.
type GroupKind int

const (
	// GroupKindTicket scopes a group to a single ticket's chat.
	GroupKindTicket GroupKind = iota
	// GroupKindTechnicians is the well-known fan-out group every
	// technician connection joins for new-ticket notifications.
	GroupKindTechnicians
)

// Group identifies a broadcast group. It is a small comparable value so it
// can key the router's membership maps directly; the loosely-typed wire name
// ("ticket-42", "technicians") only exists at the transport boundary via Wire.
type Group struct {
	kind     GroupKind
	ticketID int64
}

// Technicians is the single well-known group for technician connections.
var Technicians = Group{kind: GroupKindTechnicians}

// TicketGroup returns the group scoped to the given ticket's chat.
func TicketGroup(ticketID int64) Group {
	return Group{kind: GroupKindTicket, ticketID: ticketID}
}

// Kind returns the group's discriminator.
func (g Group) Kind() GroupKind {
	return g.kind
}

// TicketID returns the ticket a ticket group is scoped to, and zero for the
// technicians group.
func (g Group) TicketID() int64 {
	return g.ticketID
}

// Wire formats the group to its transport-level name.
func (g Group) Wire() string {
	if g.kind == GroupKindTechnicians {
		return "technicians"
	}
	return fmt.Sprintf("ticket-%d", g.ticketID)
}

// String implements fmt.Stringer for log output.
func (g Group) String() string {
	return g.Wire()
}

// ParseTicketID validates a client-supplied ticket identifier. Identifiers
// arrive as strings on the wire and must parse to a positive integer.
func ParseTicketID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidTicketID, raw)
	}
	return id, nil
}
