package http

import (
	"github.com/parkwarden/parkwarden/internal/domain/property"
	"github.com/parkwarden/parkwarden/internal/domain/setting"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	"github.com/parkwarden/parkwarden/internal/domain/violation"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	ticketRepo    ticket.Repository
	ticketIndex   ticket.SearchIndex
	violationRepo violation.Repository
	propertyRepo  property.Repository
	vehicleRepo   property.VehicleRepository
	settingRepo   setting.Repository
}
