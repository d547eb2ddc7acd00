package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domainschema "github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/infrastructure/migration"
	"github.com/parkwarden/parkwarden/internal/infrastructure/persistence/models"
)

var currentSchema = domainschema.Fixed(domainschema.FromVersion(domainschema.VersionAuditLog))

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every connection to :memory: is a separate database.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return gdb
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb := openTestDB(t)
	require.NoError(t, gdb.AutoMigrate(migration.AutoMigrateModels()...))
	return gdb
}

func setupLegacyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb := openTestDB(t)
	require.NoError(t, gdb.AutoMigrate(
		&models.LegacyTicketModel{},
		&models.TicketLineItemModel{},
		&models.ViolationModel{},
	))
	return gdb
}

func seedViolation(t *testing.T, gdb *gorm.DB, name string, fineCents *int64, towHours *int, active bool) uint {
	t.Helper()
	row := &models.ViolationModel{Name: name, FineCents: fineCents, TowDeadlineHours: towHours, IsActive: true}
	require.NoError(t, gdb.Create(row).Error)
	if !active {
		require.NoError(t, gdb.Model(row).Update("is_active", false).Error)
	}
	return row.ID
}

func cents(v int64) *int64 {
	return &v
}

type ticketArgs struct {
	ticketType vo.TicketType
	plate      string
	make       string
	property   string
	note       string
	issuedAt   time.Time
}

func newTicket(t *testing.T, args ticketArgs) *ticket.Ticket {
	t.Helper()
	if args.ticketType == "" {
		args.ticketType = vo.TypeViolation
	}
	if args.property == "" {
		args.property = "Oak Ridge"
	}
	if args.issuedAt.IsZero() {
		args.issuedAt = time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)
	}
	tk, err := ticket.NewTicket(
		args.ticketType,
		ticket.VehicleSnapshot{VehicleID: 1, Year: "2019", Color: "Blue", Make: args.make, Model: "Civic", Plate: args.plate},
		ticket.PropertySnapshot{PropertyID: 1, Name: args.property, Address: "1 Main St"},
		10, "officer", args.issuedAt, "America/Chicago", args.note,
	)
	require.NoError(t, err)
	return tk
}

type violationRef struct {
	id   uint
	name string
}

// storeTicket persists a ticket with one line item per violation, in order.
func storeTicket(t *testing.T, repo *TicketRepository, args ticketArgs, violations ...violationRef) *ticket.Ticket {
	t.Helper()
	ctx := context.Background()
	tk := newTicket(t, args)
	require.NoError(t, repo.Create(ctx, tk))

	var items []*ticket.LineItem
	order := 1
	for _, v := range violations {
		items = append(items, ticket.NewViolationLineItem(v.id, v.name, order))
		order++
	}
	if args.note != "" {
		items = append(items, ticket.NewNoteLineItem(args.note, order))
	}
	_, err := repo.AddLineItems(ctx, tk.ID(), items)
	require.NoError(t, err)
	return tk
}
