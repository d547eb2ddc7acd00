// Package violation models the violation catalog consulted when tickets are
// issued and when their totals are computed.
package violation

import (
	"context"
	"fmt"

	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
)

// Entry is one catalog violation type.
type Entry struct {
	id               uint
	name             string
	fine             *vo.Money
	towDeadlineHours *int
	displayOrder     int
	active           bool
}

func NewEntry(id uint, name string, fine *vo.Money, towDeadlineHours *int, displayOrder int, active bool) (*Entry, error) {
	if id == 0 {
		return nil, fmt.Errorf("violation ID cannot be zero")
	}
	if name == "" {
		return nil, fmt.Errorf("violation name is required")
	}
	if fine != nil && fine.Cents() < 0 {
		return nil, fmt.Errorf("violation fine cannot be negative")
	}
	if towDeadlineHours != nil && *towDeadlineHours < 0 {
		return nil, fmt.Errorf("tow deadline cannot be negative")
	}
	return &Entry{
		id:               id,
		name:             name,
		fine:             fine,
		towDeadlineHours: towDeadlineHours,
		displayOrder:     displayOrder,
		active:           active,
	}, nil
}

func (e *Entry) ID() uint {
	return e.id
}

func (e *Entry) Name() string {
	return e.name
}

// Fine is nil when the violation carries no fine.
func (e *Entry) Fine() *vo.Money {
	return e.fine
}

// TowDeadlineHours is nil when the violation does not make a vehicle towable.
func (e *Entry) TowDeadlineHours() *int {
	return e.towDeadlineHours
}

func (e *Entry) DisplayOrder() int {
	return e.displayOrder
}

func (e *Entry) IsActive() bool {
	return e.active
}

// Catalog indexes entries by id. Only active entries resolve.
type Catalog map[uint]*Entry

// NewCatalog indexes entries by id.
func NewCatalog(entries ...*Entry) Catalog {
	c := make(Catalog, len(entries))
	for _, e := range entries {
		c[e.ID()] = e
	}
	return c
}

// Lookup returns the active entry for id.
func (c Catalog) Lookup(id uint) (*Entry, bool) {
	e, ok := c[id]
	if !ok || !e.IsActive() {
		return nil, false
	}
	return e, true
}

type Repository interface {
	// FindByIDs returns the catalog entries among ids, active or not.
	FindByIDs(ctx context.Context, ids []uint) (Catalog, error)
}
