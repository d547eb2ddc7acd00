package http

import (
	"github.com/parkwarden/parkwarden/internal/application/ticket/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	createTicketUC  *usecases.CreateTicketUseCase
	closeTicketUC   *usecases.CloseTicketUseCase
	getTicketUC     *usecases.GetTicketUseCase
	searchTicketsUC *usecases.SearchTicketsUseCase
	renderLabelUC   *usecases.RenderLabelUseCase
}
