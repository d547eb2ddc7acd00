package ticket

import (
	"context"
	"time"

	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
)

// SearchFilter narrows a ticket search. Zero values leave a filter open.
// IssuedFrom and IssuedBefore form a half-open UTC range.
type SearchFilter struct {
	IssuedFrom    time.Time
	IssuedBefore  time.Time
	PropertyName  string
	ViolationType string
	FreeText      string
	MaxRows       int
}

// Summary is one aggregated row of a search result.
type Summary struct {
	ID               uint
	IssuedAt         time.Time
	IssuedTimezone   string
	Type             vo.TicketType
	Status           vo.TicketStatus
	Disposition      *vo.Disposition
	Plate            string
	Tag              string
	Make             string
	Model            string
	PropertyName     string
	Violations       string
	TotalFine        vo.Money
	CustomNote       *string
	IssuedByUsername string
}

// SearchResult carries at most MaxRows summaries, newest first.
// LimitReached is set when more rows matched.
type SearchResult struct {
	Tickets      []*Summary
	LimitReached bool
}

// SearchIndex builds filtered, aggregated ticket views.
type SearchIndex interface {
	Search(ctx context.Context, filter SearchFilter) (*SearchResult, error)
}
