package ticket

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parkwarden/parkwarden/internal/application/ticket/usecases"
	"github.com/parkwarden/parkwarden/internal/domain/setting"
	"github.com/parkwarden/parkwarden/internal/shared/constants"
	"github.com/parkwarden/parkwarden/internal/shared/errors"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
	"github.com/parkwarden/parkwarden/internal/shared/utils"
)

type TicketHandler struct {
	createTicketUC  usecases.CreateTicketExecutor
	closeTicketUC   usecases.CloseTicketExecutor
	getTicketUC     usecases.GetTicketExecutor
	searchTicketsUC usecases.SearchTicketsExecutor
	renderLabelUC   usecases.RenderLabelExecutor
	settings        setting.Provider
	logger          logger.Interface
}

func NewTicketHandler(
	createTicketUC usecases.CreateTicketExecutor,
	closeTicketUC usecases.CloseTicketExecutor,
	getTicketUC usecases.GetTicketExecutor,
	searchTicketsUC usecases.SearchTicketsExecutor,
	renderLabelUC usecases.RenderLabelExecutor,
	settings setting.Provider,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC:  createTicketUC,
		closeTicketUC:   closeTicketUC,
		getTicketUC:     getTicketUC,
		searchTicketsUC: searchTicketsUC,
		renderLabelUC:   renderLabelUC,
		settings:        settings,
		logger:          logger,
	}
}

// CreateTicket handles POST /tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	callerID, username, ok := caller(c)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	settings, ok := h.printerSettings(c)
	if !ok {
		return
	}

	cmd := req.ToCommand(callerID, username)
	cmd.Settings = settings

	result, err := h.createTicketUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toCreateTicketResponse(result), "Ticket created successfully")
}

// SearchTickets handles GET /tickets
func (h *TicketHandler) SearchTickets(c *gin.Context) {
	if _, _, ok := caller(c); !ok {
		return
	}

	var req SearchTicketsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid search parameters"))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	settings, ok := h.printerSettings(c)
	if !ok {
		return
	}

	result, err := h.searchTicketsUC.Execute(c.Request.Context(), usecases.SearchTicketsQuery{
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Property:      req.Property,
		ViolationType: req.ViolationType,
		FreeText:      req.FreeText,
		Location:      settings.Location(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetTicket handles GET /tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	callerID, _, ok := caller(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		TicketID: ticketID,
		CallerID: callerID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CloseTicket handles POST /tickets/:id/close
func (h *TicketHandler) CloseTicket(c *gin.Context) {
	callerID, _, ok := caller(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CloseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.closeTicketUC.Execute(c.Request.Context(), usecases.CloseTicketCommand{
		TicketID:    ticketID,
		Disposition: req.Disposition,
		CallerID:    callerID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket closed successfully", CloseTicketResponse{
		TicketID:       result.TicketID,
		Status:         result.Status,
		Disposition:    result.Disposition,
		ClosedAt:       result.ClosedAt.Format(time.RFC3339),
		AuditDelivered: result.Audit.Delivered,
	})
}

// DownloadLabel handles GET /tickets/:id/label
func (h *TicketHandler) DownloadLabel(c *gin.Context) {
	callerID, _, ok := caller(c)
	if !ok {
		return
	}

	ticketID, err := parseTicketID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	settings, ok := h.printerSettings(c)
	if !ok {
		return
	}

	result, err := h.renderLabelUC.Execute(c.Request.Context(), usecases.RenderLabelQuery{
		TicketID: ticketID,
		CallerID: callerID,
		Settings: settings,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header(constants.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, constants.ContentTypeLabel, result.Payload)
}

func (h *TicketHandler) printerSettings(c *gin.Context) (setting.PrinterSettings, bool) {
	settings, err := h.settings.PrinterSettings(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to load printer settings", "error", err)
		utils.ErrorResponseWithError(c, errors.ClassifyStoreError(err, "failed to load printer settings"))
		return setting.PrinterSettings{}, false
	}
	return settings, true
}

// caller reads the identity set by the auth middleware.
func caller(c *gin.Context) (uint, string, bool) {
	userID := c.GetUint(constants.ContextKeyUserID)
	if userID == 0 {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("authentication required"))
		return 0, "", false
	}
	return userID, c.GetString(constants.ContextKeyUsername), true
}
