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
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
	"github.com/parkwarden/parkwarden/internal/shared/db"
)

func TestTicketRepository_CreateAndGet(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewTicketRepository(gdb, currentSchema)
	ctx := context.Background()

	tk := newTicket(t, ticketArgs{plate: "ABC123", make: "Honda", note: "blocking dumpster"})
	require.NoError(t, repo.Create(ctx, tk))
	require.NotZero(t, tk.ID())

	n, err := repo.AddLineItems(ctx, tk.ID(), []*ticket.LineItem{
		ticket.NewViolationLineItem(4, "No Permit", 1),
		ticket.NewViolationLineItem(4, "No Permit", 2),
		ticket.NewNoteLineItem("blocking dumpster", 3),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	found, err := repo.GetByID(ctx, tk.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, vo.TypeViolation, found.Type())
	assert.Equal(t, vo.StatusActive, found.Status())
	assert.Equal(t, "ABC123", found.Vehicle().Plate)
	assert.Equal(t, "Oak Ridge", found.Property().Name)
	assert.Equal(t, "America/Chicago", found.IssuedTimezone())
	assert.True(t, tk.IssuedAt().Equal(found.IssuedAt()))

	items, err := repo.GetLineItems(ctx, tk.ID())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, 1, items[0].DisplayOrder())
	assert.Equal(t, uint(4), *items[1].ViolationID())
	assert.True(t, items[2].IsNote())
}

func TestTicketRepository_GetByID_NotFound(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t), currentSchema)

	found, err := repo.GetByID(context.Background(), 999)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestTicketRepository_CloseIfActiveIsOneShot(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewTicketRepository(gdb, currentSchema)
	ctx := context.Background()
	tk := storeTicket(t, repo, ticketArgs{plate: "ABC123"}, violationRef{1, "No Permit"})

	firstAt := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	changed, err := repo.CloseIfActive(ctx, tk.ID(), vo.DispositionCollected, 11, firstAt)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.CloseIfActive(ctx, tk.ID(), vo.DispositionDismissed, 12, firstAt.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)

	found, err := repo.GetByID(ctx, tk.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusClosed, found.Status())
	assert.Equal(t, vo.DispositionCollected, *found.Disposition())
	assert.True(t, firstAt.Equal(*found.ClosedAt()))
	assert.Equal(t, uint(11), *found.ClosedByUserID())
}

func TestTicketRepository_CloseIfActive_MissingTicket(t *testing.T) {
	repo := NewTicketRepository(setupTestDB(t), currentSchema)

	changed, err := repo.CloseIfActive(context.Background(), 42, vo.DispositionCollected, 1, time.Now())
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestTicketRepository_RollbackLeavesNoRows(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewTicketRepository(gdb, currentSchema)
	tm := db.NewTransactionManager(gdb)

	err := tm.RunInTransaction(context.Background(), func(ctx context.Context) error {
		tk := newTicket(t, ticketArgs{plate: "ABC123"})
		require.NoError(t, repo.Create(ctx, tk))
		n, err := repo.AddLineItems(ctx, tk.ID(), nil)
		require.NoError(t, err)
		require.Zero(t, n)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	var tickets, items int64
	require.NoError(t, gdb.Model(&models.TicketModel{}).Count(&tickets).Error)
	require.NoError(t, gdb.Model(&models.TicketLineItemModel{}).Count(&items).Error)
	assert.Zero(t, tickets)
	assert.Zero(t, items)
}

func TestTicketRepository_LegacySchema(t *testing.T) {
	gdb := setupLegacyTestDB(t)
	repo := NewTicketRepository(gdb, domainschema.Fixed(domainschema.FromVersion(domainschema.VersionBase)))
	ctx := context.Background()

	tk := newTicket(t, ticketArgs{ticketType: vo.TypeWarning, plate: "OLD1"})
	require.NoError(t, repo.Create(ctx, tk))

	found, err := repo.GetByID(ctx, tk.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, vo.TypeViolation, found.Type())
	assert.Equal(t, vo.StatusActive, found.Status())
	assert.Equal(t, "OLD1", found.Vehicle().Plate)

	_, err = repo.CloseIfActive(ctx, tk.ID(), vo.DispositionCollected, 1, time.Now())
	assert.ErrorIs(t, err, ErrStatusUnsupported)
}
