package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domainschema "github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/mappers"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
	"github.com/parkwarden/parkwarden/internal/shared/db"
)

// ErrStatusUnsupported is returned when closing on a schema without status columns.
var ErrStatusUnsupported = errors.New("ticket status tracking is not available on this schema")

// TicketRepository stores tickets using the record type that matches the
// schema's capability set.
type TicketRepository struct {
	db     *gorm.DB
	probe  domainschema.Probe
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB, probe domainschema.Probe) *TicketRepository {
	return &TicketRepository{
		db:     db,
		probe:  probe,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	caps, err := r.probe.Capabilities(ctx)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	var id uint
	switch {
	case caps.TicketStatus:
		model := r.mapper.ToModel(t)
		err = tx.Create(model).Error
		id = model.ID
	case caps.TicketType:
		model := r.mapper.ToTypedLegacyModel(t)
		err = tx.Create(model).Error
		id = model.ID
	default:
		model := r.mapper.ToLegacyModel(t)
		err = tx.Create(model).Error
		id = model.ID
	}
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return t.SetID(id)
}

func (r *TicketRepository) AddLineItems(ctx context.Context, ticketID uint, items []*ticket.LineItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]*models.TicketLineItemModel, 0, len(items))
	for _, item := range items {
		if err := item.AttachTo(ticketID); err != nil {
			return 0, err
		}
		rows = append(rows, r.mapper.LineItemToModel(ticketID, item))
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Create(&rows)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to create ticket line items: %w", result.Error)
	}

	for i, row := range rows {
		items[i].SetID(row.ID)
	}

	return int(result.RowsAffected), nil
}

func (r *TicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	caps, err := r.probe.Capabilities(ctx)
	if err != nil {
		return nil, err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	switch {
	case caps.TicketStatus:
		var model models.TicketModel
		if err := tx.First(&model, ticketID).Error; err != nil {
			return nil, notFoundAsNil(err)
		}
		return r.mapper.ToDomain(&model)
	case caps.TicketType:
		var model models.TypedLegacyTicketModel
		if err := tx.First(&model, ticketID).Error; err != nil {
			return nil, notFoundAsNil(err)
		}
		return r.mapper.LegacyToDomain(model.ID, model.TicketType, model.TicketSnapshotColumns)
	default:
		var model models.LegacyTicketModel
		if err := tx.First(&model, ticketID).Error; err != nil {
			return nil, notFoundAsNil(err)
		}
		return r.mapper.LegacyToDomain(model.ID, "", model.TicketSnapshotColumns)
	}
}

func (r *TicketRepository) GetLineItems(ctx context.Context, ticketID uint) ([]*ticket.LineItem, error) {
	var rows []*models.TicketLineItemModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("ticket_id = ?", ticketID).
		Order("display_order ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get ticket line items: %w", err)
	}

	items := make([]*ticket.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, r.mapper.LineItemToDomain(row))
	}
	return items, nil
}

// CloseIfActive issues one conditional UPDATE so that of two concurrent
// closers exactly one observes a changed row.
func (r *TicketRepository) CloseIfActive(ctx context.Context, ticketID uint, disposition vo.Disposition, closedBy uint, closedAt time.Time) (bool, error) {
	caps, err := r.probe.Capabilities(ctx)
	if err != nil {
		return false, err
	}
	if !caps.TicketStatus {
		return false, ErrStatusUnsupported
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.
		Model(&models.TicketModel{}).
		Where("id = ? AND status = ?", ticketID, vo.StatusActive.String()).
		Updates(map[string]interface{}{
			"status":            vo.StatusClosed.String(),
			"disposition":       disposition.String(),
			"closed_at":         closedAt.UTC(),
			"closed_by_user_id": closedBy,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to close ticket: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func notFoundAsNil(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return fmt.Errorf("failed to get ticket: %w", err)
}
