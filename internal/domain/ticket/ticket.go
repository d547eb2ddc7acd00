package ticket

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
)

// ErrAlreadyClosed is returned when a closed ticket is closed again.
var ErrAlreadyClosed = errors.New("ticket is already closed")

const maxNoteLength = 1000

// VehicleSnapshot holds the vehicle fields copied onto a ticket at issue time.
type VehicleSnapshot struct {
	VehicleID uint
	Year      string
	Color     string
	Make      string
	Model     string
	Tag       string
	Plate     string
}

// PropertySnapshot holds the property fields copied onto a ticket at issue time.
// Contact carries up to three contact lines separated by newlines.
type PropertySnapshot struct {
	PropertyID uint
	Name       string
	Address    string
	Contact    string
}

// Ticket is a violation or warning issued against a vehicle. Snapshot fields
// are frozen at creation; the only mutation is Close.
type Ticket struct {
	id               uint
	ticketType       vo.TicketType
	vehicle          VehicleSnapshot
	property         PropertySnapshot
	issuedByUserID   uint
	issuedByUsername string
	issuedAt         time.Time
	issuedTimezone   string
	customNote       *string
	status           vo.TicketStatus
	disposition      *vo.Disposition
	closedAt         *time.Time
	closedByUserID   *uint
}

func NewTicket(
	ticketType vo.TicketType,
	vehicle VehicleSnapshot,
	property PropertySnapshot,
	issuedByUserID uint,
	issuedByUsername string,
	issuedAt time.Time,
	issuedTimezone string,
	customNote string,
) (*Ticket, error) {
	if !ticketType.IsValid() {
		return nil, fmt.Errorf("invalid ticket type: %s", ticketType)
	}
	if property.PropertyID == 0 {
		return nil, fmt.Errorf("property ID is required")
	}
	if issuedByUserID == 0 {
		return nil, fmt.Errorf("issuing user ID is required")
	}
	if issuedTimezone == "" {
		return nil, fmt.Errorf("issued timezone is required")
	}

	customNote = strings.TrimSpace(customNote)
	if utf8.RuneCountInString(customNote) > maxNoteLength {
		return nil, fmt.Errorf("custom note exceeds maximum length of %d characters", maxNoteLength)
	}

	t := &Ticket{
		ticketType:       ticketType,
		vehicle:          vehicle,
		property:         property,
		issuedByUserID:   issuedByUserID,
		issuedByUsername: issuedByUsername,
		issuedAt:         issuedAt.UTC(),
		issuedTimezone:   issuedTimezone,
		status:           vo.StatusActive,
	}
	if customNote != "" {
		t.customNote = &customNote
	}

	return t, nil
}

// ReconstructTicket rebuilds a ticket from persisted state.
func ReconstructTicket(
	id uint,
	ticketType vo.TicketType,
	vehicle VehicleSnapshot,
	property PropertySnapshot,
	issuedByUserID uint,
	issuedByUsername string,
	issuedAt time.Time,
	issuedTimezone string,
	customNote *string,
	status vo.TicketStatus,
	disposition *vo.Disposition,
	closedAt *time.Time,
	closedByUserID *uint,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if !ticketType.IsValid() {
		return nil, fmt.Errorf("invalid ticket type: %s", ticketType)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid ticket status: %s", status)
	}
	if status.IsClosed() && disposition == nil {
		return nil, fmt.Errorf("closed ticket %d has no disposition", id)
	}

	return &Ticket{
		id:               id,
		ticketType:       ticketType,
		vehicle:          vehicle,
		property:         property,
		issuedByUserID:   issuedByUserID,
		issuedByUsername: issuedByUsername,
		issuedAt:         issuedAt.UTC(),
		issuedTimezone:   issuedTimezone,
		customNote:       customNote,
		status:           status,
		disposition:      disposition,
		closedAt:         closedAt,
		closedByUserID:   closedByUserID,
	}, nil
}

func (t *Ticket) ID() uint {
	return t.id
}

func (t *Ticket) Type() vo.TicketType {
	return t.ticketType
}

func (t *Ticket) Vehicle() VehicleSnapshot {
	return t.vehicle
}

func (t *Ticket) Property() PropertySnapshot {
	return t.property
}

func (t *Ticket) PropertyID() uint {
	return t.property.PropertyID
}

func (t *Ticket) IssuedByUserID() uint {
	return t.issuedByUserID
}

func (t *Ticket) IssuedByUsername() string {
	return t.issuedByUsername
}

// IssuedAt is the issue instant in UTC.
func (t *Ticket) IssuedAt() time.Time {
	return t.issuedAt
}

// IssuedTimezone is the IANA zone the ticket was issued in.
func (t *Ticket) IssuedTimezone() string {
	return t.issuedTimezone
}

// IssuedLocation resolves IssuedTimezone, falling back to UTC for unknown names.
func (t *Ticket) IssuedLocation() *time.Location {
	loc, err := time.LoadLocation(t.issuedTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (t *Ticket) CustomNote() *string {
	return t.customNote
}

func (t *Ticket) Status() vo.TicketStatus {
	return t.status
}

func (t *Ticket) Disposition() *vo.Disposition {
	return t.disposition
}

func (t *Ticket) ClosedAt() *time.Time {
	return t.closedAt
}

func (t *Ticket) ClosedByUserID() *uint {
	return t.closedByUserID
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// Close moves an active ticket to closed. Closing is one-shot.
func (t *Ticket) Close(disposition vo.Disposition, closedBy uint, at time.Time) error {
	if !disposition.IsValid() {
		return fmt.Errorf("invalid disposition: %s", disposition)
	}
	if !t.status.CanTransitionTo(vo.StatusClosed) {
		return ErrAlreadyClosed
	}

	closedAt := at.UTC()
	t.status = vo.StatusClosed
	t.disposition = &disposition
	t.closedAt = &closedAt
	t.closedByUserID = &closedBy

	return nil
}
