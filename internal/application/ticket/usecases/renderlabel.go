package usecases

import (
	"context"
	"fmt"

	"github.com/parkwarden/parkwarden/internal/domain/property"
	"github.com/parkwarden/parkwarden/internal/domain/setting"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	"github.com/parkwarden/parkwarden/internal/shared/errors"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

type RenderLabelQuery struct {
	TicketID uint
	CallerID uint
	Settings setting.PrinterSettings
}

type RenderLabelResult struct {
	Filename string
	Payload  []byte
}

type RenderLabelUseCase struct {
	tickets      *GetTicketUseCase
	propertyRepo property.Repository
	renderer     ticket.LabelRenderer
	logger       logger.Interface
}

func NewRenderLabelUseCase(
	tickets *GetTicketUseCase,
	propertyRepo property.Repository,
	renderer ticket.LabelRenderer,
	logger logger.Interface,
) *RenderLabelUseCase {
	return &RenderLabelUseCase{
		tickets:      tickets,
		propertyRepo: propertyRepo,
		renderer:     renderer,
		logger:       logger,
	}
}

func (uc *RenderLabelUseCase) Execute(ctx context.Context, query RenderLabelQuery) (*RenderLabelResult, error) {
	detail, err := uc.tickets.Load(ctx, GetTicketQuery{TicketID: query.TicketID, CallerID: query.CallerID})
	if err != nil {
		return nil, err
	}

	// The disclaimer is the property's current text; a missing property
	// prints without one.
	var disclaimer string
	prop, err := uc.propertyRepo.GetByID(ctx, detail.Ticket.PropertyID())
	if err != nil {
		uc.logger.Errorw("failed to get property", "property_id", detail.Ticket.PropertyID(), "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to render label")
	}
	if prop != nil {
		disclaimer = prop.Disclaimer()
	}

	payload, err := uc.renderer.Render(ticket.LabelInput{
		Ticket:     detail.Ticket,
		LineItems:  detail.LineItems,
		Totals:     detail.Totals,
		Disclaimer: disclaimer,
		Settings:   query.Settings,
	})
	if err != nil {
		uc.logger.Errorw("failed to render label", "ticket_id", query.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to render label")
	}

	return &RenderLabelResult{
		Filename: fmt.Sprintf("ticket-%d.zpl", detail.Ticket.ID()),
		Payload:  payload,
	}, nil
}
