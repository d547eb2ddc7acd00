package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/parkwarden/parkwarden/internal/domain/audit"
	"github.com/parkwarden/parkwarden/internal/domain/property"
	"github.com/parkwarden/parkwarden/internal/domain/ticket"
	vo "github.com/parkwarden/parkwarden/internal/domain/ticket/valueobjects"
	"github.com/parkwarden/parkwarden/internal/domain/violation"
)

type mockTicketRepository struct {
	CreateFunc        func(ctx context.Context, t *ticket.Ticket) error
	AddLineItemsFunc  func(ctx context.Context, ticketID uint, items []*ticket.LineItem) (int, error)
	GetByIDFunc       func(ctx context.Context, ticketID uint) (*ticket.Ticket, error)
	GetLineItemsFunc  func(ctx context.Context, ticketID uint) ([]*ticket.LineItem, error)
	CloseIfActiveFunc func(ctx context.Context, ticketID uint, disposition vo.Disposition, closedBy uint, closedAt time.Time) (bool, error)
}

func (m *mockTicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return t.SetID(1)
}

func (m *mockTicketRepository) AddLineItems(ctx context.Context, ticketID uint, items []*ticket.LineItem) (int, error) {
	if m.AddLineItemsFunc != nil {
		return m.AddLineItemsFunc(ctx, ticketID, items)
	}
	return len(items), nil
}

func (m *mockTicketRepository) GetByID(ctx context.Context, ticketID uint) (*ticket.Ticket, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockTicketRepository) GetLineItems(ctx context.Context, ticketID uint) ([]*ticket.LineItem, error) {
	if m.GetLineItemsFunc != nil {
		return m.GetLineItemsFunc(ctx, ticketID)
	}
	return nil, nil
}

func (m *mockTicketRepository) CloseIfActive(ctx context.Context, ticketID uint, disposition vo.Disposition, closedBy uint, closedAt time.Time) (bool, error) {
	if m.CloseIfActiveFunc != nil {
		return m.CloseIfActiveFunc(ctx, ticketID, disposition, closedBy, closedAt)
	}
	return true, nil
}

// memTicketStore keeps tickets in memory and rolls back on a failed
// transaction, so tests can observe what a real store would leave behind.
type memTicketStore struct {
	mu      sync.Mutex
	nextID  uint
	tickets map[uint]storedTicket
}

type storedTicket struct {
	ticket      *ticket.Ticket
	status      vo.TicketStatus
	disposition *vo.Disposition
	closedAt    *time.Time
	closedBy    *uint
	items       []*ticket.LineItem
}

func newMemTicketStore() *memTicketStore {
	return &memTicketStore{nextID: 1, tickets: map[uint]storedTicket{}}
}

func (s *memTicketStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	snapshot := make(map[uint]storedTicket, len(s.tickets))
	for id, st := range s.tickets {
		snapshot[id] = st
	}
	next := s.nextID
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.tickets = snapshot
		s.nextID = next
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memTicketStore) Create(_ context.Context, t *ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	if err := t.SetID(id); err != nil {
		return err
	}
	s.tickets[id] = storedTicket{ticket: t, status: t.Status()}
	return nil
}

func (s *memTicketStore) AddLineItems(_ context.Context, ticketID uint, items []*ticket.LineItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.tickets[ticketID]
	for i, item := range items {
		if err := item.AttachTo(ticketID); err != nil {
			return 0, err
		}
		item.SetID(uint(len(st.items) + i + 1))
	}
	st.items = append(st.items, items...)
	s.tickets[ticketID] = st
	return len(items), nil
}

func (s *memTicketStore) GetByID(_ context.Context, ticketID uint) (*ticket.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tickets[ticketID]
	if !ok {
		return nil, nil
	}
	t := st.ticket
	return ticket.ReconstructTicket(
		ticketID, t.Type(), t.Vehicle(), t.Property(),
		t.IssuedByUserID(), t.IssuedByUsername(), t.IssuedAt(), t.IssuedTimezone(), t.CustomNote(),
		st.status, st.disposition, st.closedAt, st.closedBy,
	)
}

func (s *memTicketStore) GetLineItems(_ context.Context, ticketID uint) ([]*ticket.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*ticket.LineItem(nil), s.tickets[ticketID].items...), nil
}

func (s *memTicketStore) CloseIfActive(_ context.Context, ticketID uint, disposition vo.Disposition, closedBy uint, closedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tickets[ticketID]
	if !ok || st.status != vo.StatusActive {
		return false, nil
	}
	st.status = vo.StatusClosed
	st.disposition = &disposition
	st.closedAt = &closedAt
	st.closedBy = &closedBy
	s.tickets[ticketID] = st
	return true, nil
}

func (s *memTicketStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}

type mockTxRunner struct {
	calls int
}

func (m *mockTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockVehicleRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*property.Vehicle, error)
}

func (m *mockVehicleRepository) GetByID(ctx context.Context, id uint) (*property.Vehicle, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockPropertyRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*property.Property, error)
}

func (m *mockPropertyRepository) GetByID(ctx context.Context, id uint) (*property.Property, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

type mockAccessChecker struct {
	CanAccessPropertyFunc func(ctx context.Context, propertyID, callerID uint) (bool, error)
}

func (m *mockAccessChecker) CanAccessProperty(ctx context.Context, propertyID, callerID uint) (bool, error) {
	if m.CanAccessPropertyFunc != nil {
		return m.CanAccessPropertyFunc(ctx, propertyID, callerID)
	}
	return true, nil
}

type mockViolationRepository struct {
	FindByIDsFunc func(ctx context.Context, ids []uint) (violation.Catalog, error)
}

func (m *mockViolationRepository) FindByIDs(ctx context.Context, ids []uint) (violation.Catalog, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return violation.Catalog{}, nil
}

// catalogRepository serves a mutable in-memory catalog.
type catalogRepository struct {
	mu      sync.Mutex
	entries violation.Catalog
}

func (c *catalogRepository) FindByIDs(_ context.Context, ids []uint) (violation.Catalog, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := violation.Catalog{}
	for _, id := range ids {
		if e, ok := c.entries[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (c *catalogRepository) put(e *violation.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.ID()] = e
}

type mockAuditSink struct {
	RecordFunc func(ctx context.Context, event audit.Event) error
	events     []audit.Event
}

func (m *mockAuditSink) Record(ctx context.Context, event audit.Event) error {
	m.events = append(m.events, event)
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, event)
	}
	return nil
}

type mockSearchIndex struct {
	SearchFunc func(ctx context.Context, filter ticket.SearchFilter) (*ticket.SearchResult, error)
}

func (m *mockSearchIndex) Search(ctx context.Context, filter ticket.SearchFilter) (*ticket.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, filter)
	}
	return &ticket.SearchResult{}, nil
}

type mockLabelRenderer struct {
	RenderFunc func(in ticket.LabelInput) ([]byte, error)
}

func (m *mockLabelRenderer) Render(in ticket.LabelInput) ([]byte, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(in)
	}
	return []byte("^XA^XZ"), nil
}
