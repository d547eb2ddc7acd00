package ticket

import (
	"fmt"

	"github.com/parkwarden/parkwarden/internal/domain/violation"
)

// LineItem is one violation reference or free-text note on a ticket. The
// description is copied at insert time and never follows catalog edits.
type LineItem struct {
	id           uint
	ticketID     uint
	violationID  *uint
	description  string
	displayOrder int
}

func NewViolationLineItem(violationID uint, description string, displayOrder int) *LineItem {
	return &LineItem{
		violationID:  &violationID,
		description:  description,
		displayOrder: displayOrder,
	}
}

func NewNoteLineItem(note string, displayOrder int) *LineItem {
	return &LineItem{
		description:  note,
		displayOrder: displayOrder,
	}
}

func ReconstructLineItem(id, ticketID uint, violationID *uint, description string, displayOrder int) *LineItem {
	return &LineItem{
		id:           id,
		ticketID:     ticketID,
		violationID:  violationID,
		description:  description,
		displayOrder: displayOrder,
	}
}

func (li *LineItem) ID() uint {
	return li.id
}

func (li *LineItem) TicketID() uint {
	return li.ticketID
}

// ViolationID is nil for note lines.
func (li *LineItem) ViolationID() *uint {
	return li.violationID
}

func (li *LineItem) IsNote() bool {
	return li.violationID == nil
}

func (li *LineItem) Description() string {
	return li.description
}

func (li *LineItem) DisplayOrder() int {
	return li.displayOrder
}

func (li *LineItem) AttachTo(ticketID uint) error {
	if ticketID == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	li.ticketID = ticketID
	return nil
}

func (li *LineItem) SetID(id uint) {
	li.id = id
}

// BuildLineItems resolves violationIDs against the active catalog in input
// order, keeping duplicates, and appends a note line when note is non-empty.
// Ids that do not resolve are returned as skipped.
func BuildLineItems(violationIDs []uint, catalog violation.Catalog, note string) (items []*LineItem, skipped []uint) {
	order := 1
	for _, id := range violationIDs {
		entry, ok := catalog.Lookup(id)
		if !ok {
			skipped = append(skipped, id)
			continue
		}
		items = append(items, NewViolationLineItem(id, entry.Name(), order))
		order++
	}
	if note != "" {
		items = append(items, NewNoteLineItem(note, order))
	}
	return items, skipped
}
