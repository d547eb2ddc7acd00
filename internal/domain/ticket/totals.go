package ticket

import (
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/domain/violation"
)

// Totals are derived from line items and the current catalog; they are never stored.
type Totals struct {
	TotalFine vo.Money
	// MinTowDeadlineHours is nil when no line item carries a tow deadline.
	MinTowDeadlineHours *int
}

// HasTowDeadline reports whether a positive tow deadline applies.
func (t Totals) HasTowDeadline() bool {
	return t.MinTowDeadlineHours != nil && *t.MinTowDeadlineHours > 0
}

// ComputeTotals sums fines and takes the minimum tow deadline over line items
// whose violation resolves in catalog. Note lines contribute nothing.
func ComputeTotals(items []*LineItem, catalog violation.Catalog) Totals {
	var totals Totals
	for _, item := range items {
		if item.IsNote() {
			continue
		}
		entry, ok := catalog.Lookup(*item.ViolationID())
		if !ok {
			continue
		}
		if fine := entry.Fine(); fine != nil {
			totals.TotalFine = totals.TotalFine.Add(*fine)
		}
		if hours := entry.TowDeadlineHours(); hours != nil {
			if totals.MinTowDeadlineHours == nil || *hours < *totals.MinTowDeadlineHours {
				h := *hours
				totals.MinTowDeadlineHours = &h
			}
		}
	}
	return totals
}
