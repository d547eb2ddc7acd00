package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/parkwarden/parkwarden/internal/domain/audit"
	"github.com/parkwarden/parkwarden/internal/domain/property"
	"github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/domain/setting"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/domain/violation"
	"github.com/parkwarden/parkwarden/internal/shared/errors"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

type CreateTicketCommand struct {
	VehicleID      uint
	ViolationIDs   []uint
	CustomNote     string
	TicketType     string
	CallerID       uint
	CallerUsername string
	// Settings supplies the installation timezone stamped on the ticket.
	Settings setting.PrinterSettings
}

type CreateTicketResult struct {
	TicketID            uint
	LineItems           int
	SkippedViolationIDs []uint
	IssuedAt            time.Time
	Audit               audit.Outcome
}

type CreateTicketUseCase struct {
	vehicleRepo   property.VehicleRepository
	propertyRepo  property.Repository
	access        property.AccessChecker
	violationRepo violation.Repository
	ticketRepo    ticket.Repository
	txManager     TransactionRunner
	probe         schema.Probe
	auditSink     audit.Sink
	policy        UnresolvedViolationPolicy
	now           Clock
	logger        logger.Interface
}

func NewCreateTicketUseCase(
	vehicleRepo property.VehicleRepository,
	propertyRepo property.Repository,
	access property.AccessChecker,
	violationRepo violation.Repository,
	ticketRepo ticket.Repository,
	txManager TransactionRunner,
	probe schema.Probe,
	auditSink audit.Sink,
	policy UnresolvedViolationPolicy,
	now Clock,
	logger logger.Interface,
) *CreateTicketUseCase {
	if now == nil {
		now = time.Now
	}
	return &CreateTicketUseCase{
		vehicleRepo:   vehicleRepo,
		propertyRepo:  propertyRepo,
		access:        access,
		violationRepo: violationRepo,
		ticketRepo:    ticketRepo,
		txManager:     txManager,
		probe:         probe,
		auditSink:     auditSink,
		policy:        policy,
		now:           now,
		logger:        logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error) {
	uc.logger.Infow("executing create ticket use case",
		"vehicle_id", cmd.VehicleID,
		"violations", len(cmd.ViolationIDs),
		"caller_id", cmd.CallerID)

	ticketType, err := uc.validateCommand(cmd)
	if err != nil {
		return nil, err
	}

	caps, err := uc.probe.Capabilities(ctx)
	if err != nil {
		uc.logger.Errorw("failed to read schema capabilities", "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to create ticket")
	}
	if ticketType != vo.TypeViolation && !caps.Supports(schema.TicketType) {
		return nil, errors.NewValidationError("ticket type is not available on this schema")
	}

	vehicle, err := uc.vehicleRepo.GetByID(ctx, cmd.VehicleID)
	if err != nil {
		uc.logger.Errorw("failed to get vehicle", "vehicle_id", cmd.VehicleID, "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to create ticket")
	}
	if vehicle == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("vehicle %d not found", cmd.VehicleID))
	}

	prop, err := uc.propertyRepo.GetByID(ctx, vehicle.PropertyID())
	if err != nil {
		uc.logger.Errorw("failed to get property", "property_id", vehicle.PropertyID(), "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to create ticket")
	}
	if prop == nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("property %d not found", vehicle.PropertyID()))
	}

	allowed, err := uc.access.CanAccessProperty(ctx, prop.ID(), cmd.CallerID)
	if err != nil {
		uc.logger.Errorw("failed to check property access", "property_id", prop.ID(), "caller_id", cmd.CallerID, "error", err)
		return nil, errors.NewInternalError("failed to create ticket")
	}
	if !allowed {
		uc.logger.Warnw("property access denied", "property_id", prop.ID(), "caller_id", cmd.CallerID)
		return nil, errors.NewForbiddenError("access to this property is denied")
	}

	catalog := violation.Catalog{}
	if len(cmd.ViolationIDs) > 0 {
		catalog, err = uc.violationRepo.FindByIDs(ctx, cmd.ViolationIDs)
		if err != nil {
			uc.logger.Errorw("failed to resolve violations", "error", err)
			return nil, errors.ClassifyStoreError(err, "failed to create ticket")
		}
	}

	note := strings.TrimSpace(cmd.CustomNote)
	items, skipped := ticket.BuildLineItems(cmd.ViolationIDs, catalog, note)
	if len(skipped) > 0 {
		if uc.policy == RejectUnresolved {
			return nil, errors.NewValidationError("unresolved violation ids", formatIDs(skipped))
		}
		uc.logger.Warnw("skipping unresolved violation ids", "vehicle_id", cmd.VehicleID, "skipped", skipped)
	}
	if len(items) == 0 {
		return nil, errors.NewValidationError("no valid violations or note")
	}

	timezone := cmd.Settings.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	t, err := ticket.NewTicket(
		ticketType,
		ticket.VehicleSnapshot{
			VehicleID: vehicle.ID(),
			Year:      vehicle.Year(),
			Color:     vehicle.Color(),
			Make:      vehicle.Make(),
			Model:     vehicle.Model(),
			Tag:       vehicle.Tag(),
			Plate:     vehicle.Plate(),
		},
		ticket.PropertySnapshot{
			PropertyID: prop.ID(),
			Name:       prop.Name(),
			Address:    prop.Address(),
			Contact:    prop.ContactLines(),
		},
		cmd.CallerID,
		cmd.CallerUsername,
		uc.now(),
		timezone,
		note,
	)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.ticketRepo.Create(txCtx, t); err != nil {
			return err
		}
		written, err := uc.ticketRepo.AddLineItems(txCtx, t.ID(), items)
		if err != nil {
			return err
		}
		if written == 0 {
			return errors.NewValidationError("no valid violations or note")
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to persist ticket", "vehicle_id", cmd.VehicleID, "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to create ticket")
	}

	outcome := audit.Emit(ctx, uc.auditSink, audit.NewEvent(
		ticket.ActionCreated, ticket.EntityType, t.ID(), cmd.CallerID,
		ticket.CreatedDetail(t, len(items), skipped), uc.now(),
	))
	if outcome.Failed() {
		uc.logger.Warnw("audit delivery failed", "action", ticket.ActionCreated, "ticket_id", t.ID(), "error", outcome.Err)
	}

	uc.logger.Infow("ticket created successfully",
		"ticket_id", t.ID(),
		"line_items", len(items),
		"skipped", len(skipped))

	return &CreateTicketResult{
		TicketID:            t.ID(),
		LineItems:           len(items),
		SkippedViolationIDs: skipped,
		IssuedAt:            t.IssuedAt(),
		Audit:               outcome,
	}, nil
}

func (uc *CreateTicketUseCase) validateCommand(cmd CreateTicketCommand) (vo.TicketType, error) {
	if cmd.VehicleID == 0 {
		return "", errors.NewValidationError("vehicle ID is required")
	}
	if cmd.CallerID == 0 {
		return "", errors.NewValidationError("caller ID is required")
	}
	ticketType, err := vo.NewTicketType(cmd.TicketType)
	if err != nil {
		return "", errors.NewValidationError(err.Error())
	}
	return ticketType, nil
}

func formatIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}
