package http

import (
	"github.com/parkwarden/parkwarden/internal/interfaces/http/handlers"
	ticketHandlers "github.com/parkwarden/parkwarden/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler *handlers.HealthHandler
	ticketHandler *ticketHandlers.TicketHandler
}
