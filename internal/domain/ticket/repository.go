package ticket

import (
	"context"
	"time"

	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
)

// Repository persists tickets and their line items. Writes join the
// transaction carried by ctx when there is one.
type Repository interface {
	// Create inserts the ticket row and sets its id.
	Create(ctx context.Context, t *Ticket) error
	// AddLineItems inserts items for ticketID in order and returns how many were written.
	AddLineItems(ctx context.Context, ticketID uint, items []*LineItem) (int, error)
	// GetByID returns nil, nil when the ticket does not exist.
	GetByID(ctx context.Context, ticketID uint) (*Ticket, error)
	// GetLineItems returns the ticket's line items by display order.
	GetLineItems(ctx context.Context, ticketID uint) ([]*LineItem, error)
	// CloseIfActive closes the ticket only while it is still active, as a
	// single conditional update. It reports whether a row changed.
	CloseIfActive(ctx context.Context, ticketID uint, disposition vo.Disposition, closedBy uint, closedAt time.Time) (bool, error)
}
