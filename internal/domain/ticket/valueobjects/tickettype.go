package valueobjects

import (
	"fmt"
	"strings"
)

type TicketType string

const (
	TypeViolation TicketType = "VIOLATION"
	TypeWarning   TicketType = "WARNING"
)

func (tt TicketType) String() string {
	return string(tt)
}

func (tt TicketType) IsValid() bool {
	return tt == TypeViolation || tt == TypeWarning
}

// NewTicketType accepts either case. An empty value means VIOLATION.
func NewTicketType(s string) (TicketType, error) {
	if s == "" {
		return TypeViolation, nil
	}
	tt := TicketType(strings.ToUpper(s))
	if !tt.IsValid() {
		return "", fmt.Errorf("invalid ticket type: %s", s)
	}
	return tt, nil
}
