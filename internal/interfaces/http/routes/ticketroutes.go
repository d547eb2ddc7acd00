package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/parkwarden/parkwarden/internal/interfaces/http/handlers/ticket"
	"github.com/parkwarden/parkwarden/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler  *tickethandlers.TicketHandler
	AuthMiddleware *middleware.AuthMiddleware
	// IssueLimiter is optional.
	IssueLimiter *middleware.CallerRateLimiter
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		createChain := []gin.HandlerFunc{config.TicketHandler.CreateTicket}
		if config.IssueLimiter != nil {
			createChain = append([]gin.HandlerFunc{config.IssueLimiter.Limit("tickets.create")}, createChain...)
		}

		// Collection operations (no ID parameter)
		tickets.POST("", createChain...)
		tickets.GET("",
			config.TicketHandler.SearchTickets)

		// Specific action endpoints
		tickets.POST("/:id/close",
			config.TicketHandler.CloseTicket)
		tickets.GET("/:id/label",
			config.TicketHandler.DownloadLabel)

		tickets.GET("/:id",
			config.TicketHandler.GetTicket)
	}
}
