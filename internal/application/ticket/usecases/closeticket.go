package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/parkwarden/parkwarden/internal/domain/audit"
	"github.com/parkwarden/parkwarden/internal/domain/property"
	"github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/shared/errors"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

type CloseTicketCommand struct {
	TicketID    uint
	Disposition string
	CallerID    uint
}

type CloseTicketResult struct {
	TicketID    uint
	Status      string
	Disposition string
	ClosedAt    time.Time
	Audit       audit.Outcome
}

type CloseTicketUseCase struct {
	ticketRepo ticket.Repository
	access     property.AccessChecker
	txManager  TransactionRunner
	probe      schema.Probe
	auditSink  audit.Sink
	now        Clock
	logger     logger.Interface
}

func NewCloseTicketUseCase(
	ticketRepo ticket.Repository,
	access property.AccessChecker,
	txManager TransactionRunner,
	probe schema.Probe,
	auditSink audit.Sink,
	now Clock,
	logger logger.Interface,
) *CloseTicketUseCase {
	if now == nil {
		now = time.Now
	}
	return &CloseTicketUseCase{
		ticketRepo: ticketRepo,
		access:     access,
		txManager:  txManager,
		probe:      probe,
		auditSink:  auditSink,
		now:        now,
		logger:     logger,
	}
}

func (uc *CloseTicketUseCase) Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error) {
	uc.logger.Infow("executing close ticket use case", "ticket_id", cmd.TicketID, "disposition", cmd.Disposition)

	disposition, err := uc.validateCommand(cmd)
	if err != nil {
		return nil, err
	}

	caps, err := uc.probe.Capabilities(ctx)
	if err != nil {
		uc.logger.Errorw("failed to read schema capabilities", "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to close ticket")
	}
	if !caps.Supports(schema.TicketStatus) {
		return nil, errors.NewValidationError("ticket status tracking is not available on this schema")
	}

	t, err := uc.ticketRepo.GetByID(ctx, cmd.TicketID)
	if err != nil {
		uc.logger.Errorw("failed to get ticket", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to close ticket")
	}
	if t == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("ticket %d not found", cmd.TicketID))
	}

	allowed, err := uc.access.CanAccessProperty(ctx, t.PropertyID(), cmd.CallerID)
	if err != nil {
		uc.logger.Errorw("failed to check property access", "property_id", t.PropertyID(), "caller_id", cmd.CallerID, "error", err)
		return nil, errors.NewInternalError("failed to close ticket")
	}
	if !allowed {
		uc.logger.Warnw("property access denied", "property_id", t.PropertyID(), "caller_id", cmd.CallerID)
		return nil, errors.NewForbiddenError("access to this ticket is denied")
	}

	closedAt := uc.now().UTC()
	if err := t.Close(disposition, cmd.CallerID, closedAt); err != nil {
		if stderrors.Is(err, ticket.ErrAlreadyClosed) {
			return nil, errors.NewConflictError(fmt.Sprintf("ticket %d is already closed", cmd.TicketID))
		}
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		changed, err := uc.ticketRepo.CloseIfActive(txCtx, cmd.TicketID, disposition, cmd.CallerID, closedAt)
		if err != nil {
			return err
		}
		if changed {
			return nil
		}
		// Another closer won, or the ticket went away since it was read.
		current, err := uc.ticketRepo.GetByID(txCtx, cmd.TicketID)
		if err != nil {
			return err
		}
		if current == nil {
			return errors.NewNotFoundError(fmt.Sprintf("ticket %d not found", cmd.TicketID))
		}
		return errors.NewConflictError(fmt.Sprintf("ticket %d is already closed", cmd.TicketID))
	})
	if err != nil {
		if errors.IsConflictError(err) {
			uc.logger.Warnw("ticket close lost to a concurrent close", "ticket_id", cmd.TicketID)
		} else {
			uc.logger.Errorw("failed to close ticket", "ticket_id", cmd.TicketID, "error", err)
		}
		return nil, errors.ClassifyStoreError(err, "failed to close ticket")
	}

	outcome := audit.Emit(ctx, uc.auditSink, audit.NewEvent(
		ticket.ActionClosed, ticket.EntityType, t.ID(), cmd.CallerID,
		ticket.ClosedDetail(disposition, closedAt), closedAt,
	))
	if outcome.Failed() {
		uc.logger.Warnw("audit delivery failed", "action", ticket.ActionClosed, "ticket_id", t.ID(), "error", outcome.Err)
	}

	uc.logger.Infow("ticket closed successfully", "ticket_id", t.ID(), "disposition", disposition)

	return &CloseTicketResult{
		TicketID:    t.ID(),
		Status:      t.Status().String(),
		Disposition: disposition.String(),
		ClosedAt:    closedAt,
		Audit:       outcome,
	}, nil
}

func (uc *CloseTicketUseCase) validateCommand(cmd CloseTicketCommand) (vo.Disposition, error) {
	if cmd.TicketID == 0 {
		return "", errors.NewValidationError("ticket ID is required")
	}
	if cmd.CallerID == 0 {
		return "", errors.NewValidationError("caller ID is required")
	}
	disposition, err := vo.NewDisposition(cmd.Disposition)
	if err != nil {
		return "", errors.NewValidationError("disposition must be collected or dismissed")
	}
	return disposition, nil
}
