package dto

import (
	"time"

	"github.com/parkwarden/parkwarden/internal/domain/ticket"
)

type VehicleDTO struct {
	VehicleID uint   `json:"vehicle_id"`
	Year      string `json:"year"`
	Color     string `json:"color"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	Tag       string `json:"tag"`
	Plate     string `json:"plate"`
}

type PropertyDTO struct {
	PropertyID uint   `json:"property_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Contact    string `json:"contact"`
}

type LineItemDTO struct {
	ID           uint   `json:"id"`
	ViolationID  *uint  `json:"violation_id"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
}

type TicketDTO struct {
	ID                  uint          `json:"id"`
	Type                string        `json:"ticket_type"`
	Status              string        `json:"status"`
	Disposition         *string       `json:"disposition"`
	Vehicle             VehicleDTO    `json:"vehicle"`
	Property            PropertyDTO   `json:"property"`
	IssuedByUserID      uint          `json:"issued_by_user_id"`
	IssuedByUsername    string        `json:"issued_by_username"`
	IssuedAt            time.Time     `json:"issued_at"`
	IssuedTimezone      string        `json:"issued_timezone"`
	CustomNote          *string       `json:"custom_note"`
	ClosedAt            *time.Time    `json:"closed_at"`
	ClosedByUserID      *uint         `json:"closed_by_user_id"`
	LineItems           []LineItemDTO `json:"line_items"`
	TotalFine           string        `json:"total_fine"`
	MinTowDeadlineHours *int          `json:"min_tow_deadline_hours"`
}

type TicketSummaryDTO struct {
	ID               uint      `json:"id"`
	IssuedAt         time.Time `json:"issued_at"`
	Type             string    `json:"ticket_type"`
	Status           string    `json:"status"`
	Disposition      *string   `json:"disposition"`
	Plate            string    `json:"plate"`
	Tag              string    `json:"tag"`
	Make             string    `json:"make"`
	Model            string    `json:"model"`
	PropertyName     string    `json:"property_name"`
	Violations       string    `json:"violations"`
	TotalFine        string    `json:"total_fine"`
	CustomNote       *string   `json:"custom_note"`
	IssuedByUsername string    `json:"issued_by"`
}

type SearchResultDTO struct {
	Tickets      []TicketSummaryDTO `json:"tickets"`
	Count        int                `json:"count"`
	LimitReached bool               `json:"limit_reached"`
}

// ToTicketDTO flattens a ticket with its line items and derived totals.
// Times are rendered in the ticket's recorded timezone.
func ToTicketDTO(t *ticket.Ticket, items []*ticket.LineItem, totals ticket.Totals) *TicketDTO {
	if t == nil {
		return nil
	}

	loc := t.IssuedLocation()
	v := t.Vehicle()
	p := t.Property()

	out := &TicketDTO{
		ID:     t.ID(),
		Type:   t.Type().String(),
		Status: t.Status().String(),
		Vehicle: VehicleDTO{
			VehicleID: v.VehicleID,
			Year:      v.Year,
			Color:     v.Color,
			Make:      v.Make,
			Model:     v.Model,
			Tag:       v.Tag,
			Plate:     v.Plate,
		},
		Property: PropertyDTO{
			PropertyID: p.PropertyID,
			Name:       p.Name,
			Address:    p.Address,
			Contact:    p.Contact,
		},
		IssuedByUserID:      t.IssuedByUserID(),
		IssuedByUsername:    t.IssuedByUsername(),
		IssuedAt:            t.IssuedAt().In(loc),
		IssuedTimezone:      t.IssuedTimezone(),
		CustomNote:          t.CustomNote(),
		ClosedByUserID:      t.ClosedByUserID(),
		LineItems:           make([]LineItemDTO, 0, len(items)),
		TotalFine:           totals.TotalFine.String(),
		MinTowDeadlineHours: totals.MinTowDeadlineHours,
	}
	if d := t.Disposition(); d != nil {
		s := d.String()
		out.Disposition = &s
	}
	if closedAt := t.ClosedAt(); closedAt != nil {
		local := closedAt.In(loc)
		out.ClosedAt = &local
	}
	for _, item := range items {
		out.LineItems = append(out.LineItems, LineItemDTO{
			ID:           item.ID(),
			ViolationID:  item.ViolationID(),
			Description:  item.Description(),
			DisplayOrder: item.DisplayOrder(),
		})
	}
	return out
}

func ToSearchResultDTO(result *ticket.SearchResult) *SearchResultDTO {
	out := &SearchResultDTO{Tickets: make([]TicketSummaryDTO, 0)}
	if result == nil {
		return out
	}

	for _, s := range result.Tickets {
		loc := time.UTC
		if l, err := time.LoadLocation(s.IssuedTimezone); err == nil && s.IssuedTimezone != "" {
			loc = l
		}
		row := TicketSummaryDTO{
			ID:               s.ID,
			IssuedAt:         s.IssuedAt.In(loc),
			Type:             s.Type.String(),
			Status:           s.Status.String(),
			Plate:            s.Plate,
			Tag:              s.Tag,
			Make:             s.Make,
			Model:            s.Model,
			PropertyName:     s.PropertyName,
			Violations:       s.Violations,
			TotalFine:        s.TotalFine.String(),
			CustomNote:       s.CustomNote,
			IssuedByUsername: s.IssuedByUsername,
		}
		if s.Disposition != nil {
			d := s.Disposition.String()
			row.Disposition = &d
		}
		out.Tickets = append(out.Tickets, row)
	}
	out.Count = len(out.Tickets)
	out.LimitReached = result.LimitReached
	return out
}
