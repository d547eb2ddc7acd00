package valueobjects

import "fmt"

type TicketStatus string

const (
	StatusActive TicketStatus = "active"
	StatusClosed TicketStatus = "closed"
)

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return ts == StatusActive || ts == StatusClosed
}

// CanTransitionTo reports whether ts may move to next. The only transition
// is active to closed.
func (ts TicketStatus) CanTransitionTo(next TicketStatus) bool {
	return ts == StatusActive && next == StatusClosed
}

func (ts TicketStatus) IsActive() bool {
	return ts == StatusActive
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

// Disposition records how a closed ticket was resolved.
type Disposition string

const (
	DispositionCollected Disposition = "collected"
	DispositionDismissed Disposition = "dismissed"
)

func (d Disposition) String() string {
	return string(d)
}

func (d Disposition) IsValid() bool {
	return d == DispositionCollected || d == DispositionDismissed
}

func NewDisposition(s string) (Disposition, error) {
	d := Disposition(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid disposition: %q (must be collected or dismissed)", s)
	}
	return d, nil
}
