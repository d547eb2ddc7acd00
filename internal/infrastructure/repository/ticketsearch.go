package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	domainschema "github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
	"github.com/parkwarden/parkwarden/internal/shared/db"
)

// likeEscape is portable across MySQL and SQLite, unlike backslash.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// freeTextColumns are matched case-insensitively by the free-text filter.
var freeTextColumns = []string{
	"t.vehicle_plate",
	"t.vehicle_tag",
	"t.vehicle_make",
	"t.vehicle_model",
	"t.custom_note",
}

// TicketSearchIndex answers ticket searches with two queries: one for the
// filtered tickets and one for their line items, aggregated in memory.
type TicketSearchIndex struct {
	db    *gorm.DB
	probe domainschema.Probe
}

func NewTicketSearchIndex(db *gorm.DB, probe domainschema.Probe) *TicketSearchIndex {
	return &TicketSearchIndex{db: db, probe: probe}
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (s *TicketSearchIndex) filtered(ctx context.Context, filter ticket.SearchFilter) *gorm.DB {
	q := db.GetTxFromContext(ctx, s.db).Table("tickets AS t").Select("t.*")

	if !filter.IssuedFrom.IsZero() {
		q = q.Where("t.issued_at >= ?", filter.IssuedFrom.UTC())
	}
	if !filter.IssuedBefore.IsZero() {
		q = q.Where("t.issued_at < ?", filter.IssuedBefore.UTC())
	}
	if filter.PropertyName != "" {
		q = q.Where("t.property_name = ?", filter.PropertyName)
	}
	if filter.FreeText != "" {
		pattern := containsPattern(filter.FreeText)
		clauses := make([]string, 0, len(freeTextColumns))
		args := make([]interface{}, 0, len(freeTextColumns))
		for _, col := range freeTextColumns {
			clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '%s'", col, likeEscape))
			args = append(args, pattern)
		}
		q = q.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	if filter.ViolationType != "" {
		q = q.Where(fmt.Sprintf(
			"EXISTS (SELECT 1 FROM ticket_violations AS tv WHERE tv.ticket_id = t.id "+
				"AND tv.violation_id IS NOT NULL AND LOWER(tv.description) LIKE ? ESCAPE '%s')", likeEscape),
			containsPattern(filter.ViolationType))
	}

	return q.Order("t.issued_at DESC").Order("t.id DESC").Limit(filter.MaxRows + 1)
}

func (s *TicketSearchIndex) Search(ctx context.Context, filter ticket.SearchFilter) (*ticket.SearchResult, error) {
	if filter.MaxRows <= 0 {
		return nil, fmt.Errorf("search max rows must be positive")
	}

	caps, err := s.probe.Capabilities(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := s.findTickets(ctx, filter, caps)
	if err != nil {
		return nil, err
	}

	result := &ticket.SearchResult{}
	if len(summaries) > filter.MaxRows {
		summaries = summaries[:filter.MaxRows]
		result.LimitReached = true
	}

	if err := s.aggregateLineItems(ctx, summaries); err != nil {
		return nil, err
	}

	result.Tickets = summaries
	return result, nil
}

func (s *TicketSearchIndex) findTickets(ctx context.Context, filter ticket.SearchFilter, caps domainschema.Capabilities) ([]*ticket.Summary, error) {
	q := s.filtered(ctx, filter)

	switch {
	case caps.TicketStatus:
		var rows []models.TicketModel
		if err := q.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to search tickets: %w", err)
		}
		out := make([]*ticket.Summary, 0, len(rows))
		for i := range rows {
			sum := summaryFromSnapshot(rows[i].ID, rows[i].TicketType, rows[i].TicketSnapshotColumns)
			sum.Status = vo.TicketStatus(rows[i].Status)
			if rows[i].Disposition != nil {
				d := vo.Disposition(*rows[i].Disposition)
				sum.Disposition = &d
			}
			out = append(out, sum)
		}
		return out, nil
	case caps.TicketType:
		var rows []models.TypedLegacyTicketModel
		if err := q.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to search tickets: %w", err)
		}
		out := make([]*ticket.Summary, 0, len(rows))
		for i := range rows {
			out = append(out, summaryFromSnapshot(rows[i].ID, rows[i].TicketType, rows[i].TicketSnapshotColumns))
		}
		return out, nil
	default:
		var rows []models.LegacyTicketModel
		if err := q.Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to search tickets: %w", err)
		}
		out := make([]*ticket.Summary, 0, len(rows))
		for i := range rows {
			out = append(out, summaryFromSnapshot(rows[i].ID, "", rows[i].TicketSnapshotColumns))
		}
		return out, nil
	}
}

func summaryFromSnapshot(id uint, ticketType string, s models.TicketSnapshotColumns) *ticket.Summary {
	tt := vo.TicketType(ticketType)
	if tt == "" {
		tt = vo.TypeViolation
	}
	return &ticket.Summary{
		ID:               id,
		IssuedAt:         s.IssuedAt.UTC(),
		IssuedTimezone:   s.IssuedTimezone,
		Type:             tt,
		Status:           vo.StatusActive,
		Plate:            s.VehiclePlate,
		Tag:              s.VehicleTag,
		Make:             s.VehicleMake,
		Model:            s.VehicleModel,
		PropertyName:     s.PropertyName,
		CustomNote:       s.CustomNote,
		IssuedByUsername: s.IssuedByUsername,
	}
}

type lineItemFineRow struct {
	TicketID    uint
	Description string
	FineCents   *int64
	IsActive    *bool
}

// aggregateLineItems fills the violations string and total fine of each
// summary. Fines count only for catalog entries that are still active.
func (s *TicketSearchIndex) aggregateLineItems(ctx context.Context, summaries []*ticket.Summary) error {
	if len(summaries) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(summaries))
	byID := make(map[uint]*ticket.Summary, len(summaries))
	for _, sum := range summaries {
		ids = append(ids, sum.ID)
		byID[sum.ID] = sum
	}

	var rows []lineItemFineRow
	if err := db.GetTxFromContext(ctx, s.db).
		Table("ticket_violations AS tv").
		Select("tv.ticket_id, tv.description, v.fine_cents, v.is_active").
		Joins("LEFT JOIN violations AS v ON v.id = tv.violation_id").
		Where("tv.ticket_id IN ? AND tv.violation_id IS NOT NULL", ids).
		Order("tv.ticket_id ASC, tv.display_order ASC, tv.id ASC").
		Scan(&rows).Error; err != nil {
		return fmt.Errorf("failed to aggregate ticket line items: %w", err)
	}

	descriptions := make(map[uint][]string, len(summaries))
	for _, row := range rows {
		descriptions[row.TicketID] = append(descriptions[row.TicketID], row.Description)
		if row.FineCents != nil && row.IsActive != nil && *row.IsActive {
			sum := byID[row.TicketID]
			sum.TotalFine = sum.TotalFine.Add(vo.NewMoneyFromCents(*row.FineCents))
		}
	}
	for id, parts := range descriptions {
		byID[id].Violations = strings.Join(parts, ", ")
	}

	return nil
}
