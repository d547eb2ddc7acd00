package ticket

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/parkwarden/parkwarden/internal/application/ticket/usecases"
	"github.com/parkwarden/parkwarden/internal/shared/errors"
	"github.com/parkwarden/parkwarden/internal/shared/utils"
)

type CreateTicketRequest struct {
	VehicleID    uint   `json:"vehicle_id" validate:"required"`
	ViolationIDs []uint `json:"violation_ids" validate:"max=50,dive,gt=0"`
	CustomNote   string `json:"custom_note" validate:"max=1000"`
	TicketType   string `json:"ticket_type" validate:"omitempty,oneof=VIOLATION WARNING violation warning"`
}

func (r *CreateTicketRequest) ToCommand(callerID uint, username string) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		VehicleID:      r.VehicleID,
		ViolationIDs:   r.ViolationIDs,
		CustomNote:     r.CustomNote,
		TicketType:     r.TicketType,
		CallerID:       callerID,
		CallerUsername: username,
	}
}

type CreateTicketResponse struct {
	TicketID            uint   `json:"ticket_id"`
	LineItems           int    `json:"line_items"`
	SkippedViolationIDs []uint `json:"skipped_violation_ids"`
	AuditDelivered      bool   `json:"audit_delivered"`
}

func toCreateTicketResponse(result *usecases.CreateTicketResult) CreateTicketResponse {
	skipped := result.SkippedViolationIDs
	if skipped == nil {
		skipped = []uint{}
	}
	return CreateTicketResponse{
		TicketID:            result.TicketID,
		LineItems:           result.LineItems,
		SkippedViolationIDs: skipped,
		AuditDelivered:      result.Audit.Delivered,
	}
}

type CloseTicketRequest struct {
	Disposition string `json:"disposition" validate:"required"`
}

type CloseTicketResponse struct {
	TicketID       uint   `json:"ticket_id"`
	Status         string `json:"status"`
	Disposition    string `json:"disposition"`
	ClosedAt       string `json:"closed_at"`
	AuditDelivered bool   `json:"audit_delivered"`
}

type SearchTicketsRequest struct {
	StartDate     string `form:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `form:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Property      string `form:"property" json:"property" validate:"max=200"`
	ViolationType string `form:"violation_type" json:"violation_type" validate:"max=200"`
	FreeText      string `form:"q" json:"q" validate:"max=200"`
}

func parseTicketID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("invalid ticket ID")
	}
	return uint(id), utils.ValidateID(uint(id), "ticket ID")
}
