package usecases

import (
	"context"
	"fmt"

	"github.com/parkwarden/parkwarden/internal/application/ticket/dto"
	"github.com/parkwarden/parkwarden/internal/domain/property"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	"github.com/parkwarden/parkwarden/internal/domain/violation"
	"github.com/parkwarden/parkwarden/internal/shared/errors"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketID uint
	CallerID uint
}

// TicketDetail is a ticket with its line items and totals derived from the
// current catalog.
type TicketDetail struct {
	Ticket    *ticket.Ticket
	LineItems []*ticket.LineItem
	Totals    ticket.Totals
}

type GetTicketUseCase struct {
	ticketRepo    ticket.Repository
	violationRepo violation.Repository
	access        property.AccessChecker
	logger        logger.Interface
}

func NewGetTicketUseCase(
	ticketRepo ticket.Repository,
	violationRepo violation.Repository,
	access property.AccessChecker,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		ticketRepo:    ticketRepo,
		violationRepo: violationRepo,
		access:        access,
		logger:        logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	detail, err := uc.Load(ctx, query)
	if err != nil {
		return nil, err
	}
	return dto.ToTicketDTO(detail.Ticket, detail.LineItems, detail.Totals), nil
}

// Load resolves the ticket after checking the caller may access its property.
func (uc *GetTicketUseCase) Load(ctx context.Context, query GetTicketQuery) (*TicketDetail, error) {
	if query.TicketID == 0 {
		return nil, errors.NewValidationError("ticket ID is required")
	}

	t, err := uc.ticketRepo.GetByID(ctx, query.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to get ticket", "ticket_id", query.TicketID, "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to get ticket")
	}
	if t == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("ticket %d not found", query.TicketID))
	}

	allowed, err := uc.access.CanAccessProperty(ctx, t.PropertyID(), query.CallerID)
	if err != nil {
		uc.logger.Errorw("failed to check property access", "property_id", t.PropertyID(), "caller_id", query.CallerID, "error", err)
		return nil, errors.NewInternalError("failed to get ticket")
	}
	if !allowed {
		return nil, errors.NewForbiddenError("access to this ticket is denied")
	}

	items, err := uc.ticketRepo.GetLineItems(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to get line items", "ticket_id", t.ID(), "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to get ticket")
	}

	var ids []uint
	for _, item := range items {
		if !item.IsNote() {
			ids = append(ids, *item.ViolationID())
		}
	}
	catalog := violation.Catalog{}
	if len(ids) > 0 {
		catalog, err = uc.violationRepo.FindByIDs(ctx, ids)
		if err != nil {
			uc.logger.Errorw("failed to resolve violations", "ticket_id", t.ID(), "error", err)
			return nil, errors.ClassifyStoreError(err, "failed to get ticket")
		}
	}

	return &TicketDetail{
		Ticket:    t,
		LineItems: items,
		Totals:    ticket.ComputeTotals(items, catalog),
	}, nil
}
