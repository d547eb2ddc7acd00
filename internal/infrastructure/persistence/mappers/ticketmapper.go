package mappers

import (
	"fmt"

	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
)

// TicketMapper handles the conversion between Ticket domain entities and persistence models.
type TicketMapper interface {
	ToModel(t *ticket.Ticket) *models.TicketModel
	ToTypedLegacyModel(t *ticket.Ticket) *models.TypedLegacyTicketModel
	ToLegacyModel(t *ticket.Ticket) *models.LegacyTicketModel

	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)
	// LegacyToDomain rebuilds a ticket stored before type and status tracking.
	// ticketType is empty on version 1 schemas.
	LegacyToDomain(id uint, ticketType string, snapshot models.TicketSnapshotColumns) (*ticket.Ticket, error)

	LineItemToModel(ticketID uint, item *ticket.LineItem) *models.TicketLineItemModel
	LineItemToDomain(model *models.TicketLineItemModel) *ticket.LineItem
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

// NewTicketMapper creates a new TicketMapper.
func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func snapshotColumns(t *ticket.Ticket) models.TicketSnapshotColumns {
	v := t.Vehicle()
	p := t.Property()

	var vehicleID *uint
	if v.VehicleID != 0 {
		id := v.VehicleID
		vehicleID = &id
	}

	return models.TicketSnapshotColumns{
		VehicleID:        vehicleID,
		PropertyID:       p.PropertyID,
		VehicleYear:      v.Year,
		VehicleColor:     v.Color,
		VehicleMake:      v.Make,
		VehicleModel:     v.Model,
		VehicleTag:       v.Tag,
		VehiclePlate:     v.Plate,
		PropertyName:     p.Name,
		PropertyAddress:  p.Address,
		PropertyContact:  p.Contact,
		IssuedByUserID:   t.IssuedByUserID(),
		IssuedByUsername: t.IssuedByUsername(),
		IssuedAt:         t.IssuedAt(),
		IssuedTimezone:   t.IssuedTimezone(),
		CustomNote:       t.CustomNote(),
	}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	model := &models.TicketModel{
		ID:                    t.ID(),
		TicketType:            t.Type().String(),
		TicketSnapshotColumns: snapshotColumns(t),
		Status:                t.Status().String(),
		ClosedAt:              t.ClosedAt(),
		ClosedByUserID:        t.ClosedByUserID(),
	}
	if d := t.Disposition(); d != nil {
		s := d.String()
		model.Disposition = &s
	}
	return model
}

func (m *TicketMapperImpl) ToTypedLegacyModel(t *ticket.Ticket) *models.TypedLegacyTicketModel {
	return &models.TypedLegacyTicketModel{
		ID:                    t.ID(),
		TicketType:            t.Type().String(),
		TicketSnapshotColumns: snapshotColumns(t),
	}
}

func (m *TicketMapperImpl) ToLegacyModel(t *ticket.Ticket) *models.LegacyTicketModel {
	return &models.LegacyTicketModel{
		ID:                    t.ID(),
		TicketSnapshotColumns: snapshotColumns(t),
	}
}

func vehicleSnapshot(s models.TicketSnapshotColumns) ticket.VehicleSnapshot {
	v := ticket.VehicleSnapshot{
		Year:  s.VehicleYear,
		Color: s.VehicleColor,
		Make:  s.VehicleMake,
		Model: s.VehicleModel,
		Tag:   s.VehicleTag,
		Plate: s.VehiclePlate,
	}
	if s.VehicleID != nil {
		v.VehicleID = *s.VehicleID
	}
	return v
}

func propertySnapshot(s models.TicketSnapshotColumns) ticket.PropertySnapshot {
	return ticket.PropertySnapshot{
		PropertyID: s.PropertyID,
		Name:       s.PropertyName,
		Address:    s.PropertyAddress,
		Contact:    s.PropertyContact,
	}
}

// ToDomain converts a ticket persistence model to a domain entity.
// Line items are loaded separately by the repository.
func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	ticketType, err := vo.NewTicketType(model.TicketType)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
	}
	status, err := vo.NewTicketStatus(model.Status)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
	}

	var disposition *vo.Disposition
	if model.Disposition != nil {
		d, err := vo.NewDisposition(*model.Disposition)
		if err != nil {
			return nil, fmt.Errorf("ticket %d: %w", model.ID, err)
		}
		disposition = &d
	}

	var closedAt = model.ClosedAt
	if closedAt != nil {
		utc := closedAt.UTC()
		closedAt = &utc
	}

	return ticket.ReconstructTicket(
		model.ID,
		ticketType,
		vehicleSnapshot(model.TicketSnapshotColumns),
		propertySnapshot(model.TicketSnapshotColumns),
		model.IssuedByUserID,
		model.IssuedByUsername,
		model.IssuedAt,
		model.IssuedTimezone,
		model.CustomNote,
		status,
		disposition,
		closedAt,
		model.ClosedByUserID,
	)
}

func (m *TicketMapperImpl) LegacyToDomain(id uint, ticketType string, snapshot models.TicketSnapshotColumns) (*ticket.Ticket, error) {
	tt, err := vo.NewTicketType(ticketType)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: %w", id, err)
	}

	return ticket.ReconstructTicket(
		id,
		tt,
		vehicleSnapshot(snapshot),
		propertySnapshot(snapshot),
		snapshot.IssuedByUserID,
		snapshot.IssuedByUsername,
		snapshot.IssuedAt,
		snapshot.IssuedTimezone,
		snapshot.CustomNote,
		vo.StatusActive,
		nil,
		nil,
		nil,
	)
}

func (m *TicketMapperImpl) LineItemToModel(ticketID uint, item *ticket.LineItem) *models.TicketLineItemModel {
	return &models.TicketLineItemModel{
		ID:           item.ID(),
		TicketID:     ticketID,
		ViolationID:  item.ViolationID(),
		Description:  item.Description(),
		DisplayOrder: item.DisplayOrder(),
	}
}

func (m *TicketMapperImpl) LineItemToDomain(model *models.TicketLineItemModel) *ticket.LineItem {
	return ticket.ReconstructLineItem(model.ID, model.TicketID, model.ViolationID, model.Description, model.DisplayOrder)
}
