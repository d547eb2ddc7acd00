package usecases

import (
	"context"
	"time"

	"github.com/parkwarden/parkwarden/internal/application/ticket/dto"
)

// TransactionRunner runs fn in one store transaction carried by the context.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock returns the current instant.
type Clock func() time.Time

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type CloseTicketExecutor interface {
	Execute(ctx context.Context, cmd CloseTicketCommand) (*CloseTicketResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type SearchTicketsExecutor interface {
	Execute(ctx context.Context, query SearchTicketsQuery) (*dto.SearchResultDTO, error)
}

type RenderLabelExecutor interface {
	Execute(ctx context.Context, query RenderLabelQuery) (*RenderLabelResult, error)
}
