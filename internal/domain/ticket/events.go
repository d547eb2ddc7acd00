package ticket

import (
	"time"

	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
)

const (
	EntityType = "ticket"

	ActionCreated = "ticket.created"
	ActionClosed  = "ticket.closed"
)

// CreatedDetail is the audit payload recorded after a ticket is issued.
func CreatedDetail(t *Ticket, lineItems int, skipped []uint) map[string]any {
	detail := map[string]any{
		"ticket_type": t.Type().String(),
		"vehicle_id":  t.Vehicle().VehicleID,
		"property_id": t.PropertyID(),
		"plate":       t.Vehicle().Plate,
		"line_items":  lineItems,
		"issued_at":   t.IssuedAt().Format(time.RFC3339),
	}
	if len(skipped) > 0 {
		detail["skipped_violation_ids"] = skipped
	}
	return detail
}

// ClosedDetail is the audit payload recorded after a ticket is closed.
func ClosedDetail(disposition vo.Disposition, closedAt time.Time) map[string]any {
	return map[string]any{
		"disposition": disposition.String(),
		"closed_at":   closedAt.UTC().Format(time.RFC3339),
	}
}
