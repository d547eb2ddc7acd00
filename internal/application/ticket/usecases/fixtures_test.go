package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/parkwarden/parkwarden/internal/domain/property"
	"github.com/parkwarden/parkwarden/internal/domain/schema"
	"github.com/parkwarden/parkwarden/internal/domain/setting"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/domain/violation"
	"github.com/parkwarden/parkwarden/internal/shared/logger"
)

var fixedNow = time.Date(2024, 3, 2, 15, 15, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func intPtr(v int) *int { return &v }

func entry(t *testing.T, id uint, name, fine string, tow *int, active bool) *violation.Entry {
	t.Helper()
	var amount *vo.Money
	if fine != "" {
		m, err := vo.ParseMoney(fine)
		require.NoError(t, err)
		amount = &m
	}
	e, err := violation.NewEntry(id, name, amount, tow, int(id), active)
	require.NoError(t, err)
	return e
}

func testSettings() setting.PrinterSettings {
	return setting.PrinterSettings{
		Timezone:           "America/Chicago",
		DPI:                203,
		LabelWidthDots:     812,
		MaxLabelLengthDots: 2436,
	}
}

// world wires every use case over one in-memory store and catalog.
type world struct {
	store      *memTicketStore
	catalog    *catalogRepository
	vehicles   *mockVehicleRepository
	properties *mockPropertyRepository
	access     *mockAccessChecker
	sink       *mockAuditSink
	probe      schema.Probe
	policy     UnresolvedViolationPolicy
	log        logger.Interface
}

func newWorld(t *testing.T) *world {
	t.Helper()

	prop, err := property.NewProperty(1, "Maple Court", "100 Maple St",
		[]property.Contact{{Name: "Office", Phone: "555-0100"}}, "Towed at owner's expense.")
	require.NoError(t, err)
	vehicle, err := property.NewVehicle(9, 1, "2019", "Blue", "Honda", "Civic", "T-77", "ABC123")
	require.NoError(t, err)

	w := &world{
		store:   newMemTicketStore(),
		catalog: &catalogRepository{entries: violation.Catalog{}},
		vehicles: &mockVehicleRepository{
			GetByIDFunc: func(_ context.Context, id uint) (*property.Vehicle, error) {
				if id == vehicle.ID() {
					return vehicle, nil
				}
				return nil, nil
			},
		},
		properties: &mockPropertyRepository{
			GetByIDFunc: func(_ context.Context, id uint) (*property.Property, error) {
				if id == prop.ID() {
					return prop, nil
				}
				return nil, nil
			},
		},
		access: &mockAccessChecker{},
		sink:   &mockAuditSink{},
		probe:  schema.Fixed(schema.FromVersion(schema.VersionAuditLog)),
		policy: SkipUnresolved,
		log:    logger.NewNop(),
	}
	w.catalog.put(entry(t, 1, "No Permit", "50.00", nil, true))
	w.catalog.put(entry(t, 2, "Blocking Fire Lane", "100.00", intPtr(24), true))
	w.catalog.put(entry(t, 3, "Retired Rule", "20.00", nil, false))
	return w
}

func (w *world) create() *CreateTicketUseCase {
	return NewCreateTicketUseCase(w.vehicles, w.properties, w.access, w.catalog, w.store, w.store,
		w.probe, w.sink, w.policy, fixedClock, w.log)
}

func (w *world) close() *CloseTicketUseCase {
	return NewCloseTicketUseCase(w.store, w.access, w.store, w.probe, w.sink, fixedClock, w.log)
}

func (w *world) get() *GetTicketUseCase {
	return NewGetTicketUseCase(w.store, w.catalog, w.access, w.log)
}

func (w *world) issue(t *testing.T, violationIDs []uint, note string) uint {
	t.Helper()
	result, err := w.create().Execute(context.Background(), CreateTicketCommand{
		VehicleID:      9,
		ViolationIDs:   violationIDs,
		CustomNote:     note,
		CallerID:       3,
		CallerUsername: "officer.lee",
		Settings:       testSettings(),
	})
	require.NoError(t, err)
	return result.TicketID
}
