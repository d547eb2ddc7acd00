package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainschema "github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/shared/biztime"
)

func day(d, hour int) time.Time {
	return time.Date(2024, 3, d, hour, 0, 0, 0, time.UTC)
}

func TestTicketSearch_DateRangeAndProperty(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewTicketRepository(gdb, currentSchema)
	index := NewTicketSearchIndex(gdb, currentSchema)
	loc, err := biztime.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// 2024-03-01 03:00 UTC is still Feb 29 in Chicago.
	storeTicket(t, repo, ticketArgs{plate: "EARLY", issuedAt: day(1, 3)})
	in1 := storeTicket(t, repo, ticketArgs{plate: "IN1", issuedAt: day(1, 15)})
	in2 := storeTicket(t, repo, ticketArgs{plate: "IN2", issuedAt: day(3, 4)}) // Mar 2 local
	storeTicket(t, repo, ticketArgs{plate: "OTHER", property: "Elm Court", issuedAt: day(2, 12)})
	storeTicket(t, repo, ticketArgs{plate: "LATE", issuedAt: day(3, 12)})

	from, err := biztime.ParseDate("2024-03-01", loc)
	require.NoError(t, err)
	to, err := biztime.ParseDate("2024-03-02", loc)
	require.NoError(t, err)
	start, end := biztime.DayRangeUTC(from, to, loc)

	res, err := index.Search(context.Background(), ticket.SearchFilter{
		IssuedFrom:   start,
		IssuedBefore: end,
		PropertyName: "Oak Ridge",
		MaxRows:      500,
	})
	require.NoError(t, err)
	require.Len(t, res.Tickets, 2)
	assert.False(t, res.LimitReached)
	assert.Equal(t, in2.ID(), res.Tickets[0].ID)
	assert.Equal(t, in1.ID(), res.Tickets[1].ID)
}

func TestTicketSearch_AggregatesViolationsAndFines(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewTicketRepository(gdb, currentSchema)
	index := NewTicketSearchIndex(gdb, currentSchema)

	noPermit := seedViolation(t, gdb, "No Permit", cents(5000), nil, true)
	fireLane := seedViolation(t, gdb, "Blocking Fire Lane", cents(10000), nil, true)
	retired := seedViolation(t, gdb, "Expired Decal", cents(2500), nil, false)

	tk := storeTicket(t, repo, ticketArgs{plate: "ABC123", note: "left engine running"},
		violationRef{noPermit, "No Permit"},
		violationRef{fireLane, "Blocking Fire Lane"},
		violationRef{retired, "Expired Decal"},
	)

	res, err := index.Search(context.Background(), ticket.SearchFilter{MaxRows: 10})
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)

	sum := res.Tickets[0]
	assert.Equal(t, tk.ID(), sum.ID)
	assert.Equal(t, "No Permit, Blocking Fire Lane, Expired Decal", sum.Violations)
	assert.Equal(t, "150.00", sum.TotalFine.String())
	assert.Equal(t, vo.StatusActive, sum.Status)
	require.NotNil(t, sum.CustomNote)
	assert.Equal(t, "left engine running", *sum.CustomNote)
}

func TestTicketSearch_FreeTextAndViolationType(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewTicketRepository(gdb, currentSchema)
	index := NewTicketSearchIndex(gdb, currentSchema)
	ctx := context.Background()

	honda := storeTicket(t, repo, ticketArgs{plate: "abc123", make: "Honda"}, violationRef{1, "No Permit"})
	note := storeTicket(t, repo, ticketArgs{plate: "ZZZ999", make: "Ford", note: "100% blocked"}, violationRef{2, "Blocking Fire Lane"})

	res, err := index.Search(ctx, ticket.SearchFilter{FreeText: "ABC", MaxRows: 10})
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, honda.ID(), res.Tickets[0].ID)

	res, err = index.Search(ctx, ticket.SearchFilter{FreeText: "honda", MaxRows: 10})
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)

	// % is matched literally.
	res, err = index.Search(ctx, ticket.SearchFilter{FreeText: "0%", MaxRows: 10})
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, note.ID(), res.Tickets[0].ID)

	res, err = index.Search(ctx, ticket.SearchFilter{FreeText: "_", MaxRows: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Tickets)

	res, err = index.Search(ctx, ticket.SearchFilter{ViolationType: "fire", MaxRows: 10})
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, note.ID(), res.Tickets[0].ID)
}

func TestTicketSearch_LimitReached(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewTicketRepository(gdb, currentSchema)
	index := NewTicketSearchIndex(gdb, currentSchema)

	for i := 1; i <= 3; i++ {
		storeTicket(t, repo, ticketArgs{plate: "P", issuedAt: day(i, 12)})
	}

	res, err := index.Search(context.Background(), ticket.SearchFilter{MaxRows: 2})
	require.NoError(t, err)
	assert.True(t, res.LimitReached)
	require.Len(t, res.Tickets, 2)
	assert.True(t, res.Tickets[0].IssuedAt.Equal(day(3, 12)))

	res, err = index.Search(context.Background(), ticket.SearchFilter{MaxRows: 3})
	require.NoError(t, err)
	assert.False(t, res.LimitReached)
	assert.Len(t, res.Tickets, 3)
}

func TestTicketSearch_LegacySchema(t *testing.T) {
	gdb := setupLegacyTestDB(t)
	legacy := domainschema.Fixed(domainschema.FromVersion(domainschema.VersionBase))
	repo := NewTicketRepository(gdb, legacy)
	index := NewTicketSearchIndex(gdb, legacy)

	storeTicket(t, repo, ticketArgs{plate: "OLD1"})

	res, err := index.Search(context.Background(), ticket.SearchFilter{MaxRows: 5})
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)
	assert.Equal(t, vo.TypeViolation, res.Tickets[0].Type)
	assert.Equal(t, vo.StatusActive, res.Tickets[0].Status)
}

func TestTicketSearch_RequiresMaxRows(t *testing.T) {
	index := NewTicketSearchIndex(setupTestDB(t), currentSchema)
	_, err := index.Search(context.Background(), ticket.SearchFilter{})
	assert.Error(t, err)
}
