package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/parkwarden/parkwarden/internal/application/ticket/dto"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	"github.com/parkwarden/parkwarden/internal/shared/biztime"
	"github.com/parkwarden/parkwarden/internal/shared/errors"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

// SearchTicketsQuery dates are YYYY-MM-DD calendar days in Location, both
// inclusive. Empty strings leave a filter open.
type SearchTicketsQuery struct {
	StartDate     string
	EndDate       string
	Property      string
	ViolationType string
	FreeText      string
	Location      *time.Location
}

type SearchTicketsUseCase struct {
	index   ticket.SearchIndex
	maxRows int
	logger  logger.Interface
}

func NewSearchTicketsUseCase(index ticket.SearchIndex, maxRows int, logger logger.Interface) *SearchTicketsUseCase {
	return &SearchTicketsUseCase{
		index:   index,
		maxRows: maxRows,
		logger:  logger,
	}
}

func (uc *SearchTicketsUseCase) Execute(ctx context.Context, query SearchTicketsQuery) (*dto.SearchResultDTO, error) {
	filter, err := uc.buildFilter(query)
	if err != nil {
		return nil, err
	}

	result, err := uc.index.Search(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to search tickets", "error", err)
		return nil, errors.ClassifyStoreError(err, "failed to search tickets")
	}

	if result.LimitReached {
		uc.logger.Infow("ticket search hit the row limit", "max_rows", filter.MaxRows)
	}

	return dto.ToSearchResultDTO(result), nil
}

func (uc *SearchTicketsUseCase) buildFilter(query SearchTicketsQuery) (ticket.SearchFilter, error) {
	loc := query.Location
	if loc == nil {
		loc = time.UTC
	}

	var from, to time.Time
	var err error
	if s := strings.TrimSpace(query.StartDate); s != "" {
		if from, err = biztime.ParseDate(s, loc); err != nil {
			return ticket.SearchFilter{}, errors.NewValidationError("start date must be YYYY-MM-DD")
		}
	}
	if s := strings.TrimSpace(query.EndDate); s != "" {
		if to, err = biztime.ParseDate(s, loc); err != nil {
			return ticket.SearchFilter{}, errors.NewValidationError("end date must be YYYY-MM-DD")
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return ticket.SearchFilter{}, errors.NewValidationError("end date must not be before start date")
	}

	start, end := biztime.DayRangeUTC(from, to, loc)
	return ticket.SearchFilter{
		IssuedFrom:    start,
		IssuedBefore:  end,
		PropertyName:  strings.TrimSpace(query.Property),
		ViolationType: strings.TrimSpace(query.ViolationType),
		FreeText:      strings.TrimSpace(query.FreeText),
		MaxRows:       uc.maxRows,
	}, nil
}
