package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/diagnosis/gatherly/internal/domain"
)

// ---------- Mocks ----------

type mockEventRepo struct {
	mu      sync.Mutex
	nextID  int64
	events  map[int64]*domain.Event
	getErr  error
	listErr error
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{nextID: 1, events: make(map[int64]*domain.Event)}
}

func (m *mockEventRepo) put(e *domain.Event) *domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == 0 {
		e.ID = m.nextID
		m.nextID++
	}
	cp := *e
	m.events[cp.ID] = &cp
	return &cp
}

func (m *mockEventRepo) Create(_ context.Context, e *domain.Event) (*domain.Event, error) {
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	return m.put(e), nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *mockEventRepo) ListPublic(_ context.Context, query string, category *domain.EventCategory, limit, offset int) ([]domain.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, e := range m.events {
		if !e.IsPublic {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(query)) {
			continue
		}
		if category != nil && e.Category != *category {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockEventRepo) ListByOrganizer(_ context.Context, organizerID int64) ([]domain.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for _, e := range m.events {
		if e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) CountByOrganizer(_ context.Context, organizerID int64) (int, error) {
	es, _ := m.ListByOrganizer(context.Background(), organizerID)
	return len(es), nil
}

func (m *mockEventRepo) Update(_ context.Context, e *domain.Event) (*domain.Event, error) {
	e.UpdatedAt = time.Now()
	return m.put(e), nil
}

func (m *mockEventRepo) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return false, nil
	}
	delete(m.events, id)
	return true, nil
}

type mockRSVPRepo struct {
	mu        sync.Mutex
	nextID    int64
	rsvps     map[int64]*domain.RSVP
	findErr   error
	upsertErr error
}

func newMockRSVPRepo() *mockRSVPRepo {
	return &mockRSVPRepo{nextID: 1, rsvps: make(map[int64]*domain.RSVP)}
}

func (m *mockRSVPRepo) seed(r domain.RSVP) *domain.RSVP {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		r.ID = m.nextID
		m.nextID++
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().Add(-time.Hour)
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = r.CreatedAt
	}
	stored := r
	m.rsvps[r.ID] = &stored
	return &r
}

func (m *mockRSVPRepo) FindByEventAndEmail(_ context.Context, eventID int64, guestEmail string) (*domain.RSVP, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rsvps {
		if r.EventID == eventID && r.GuestEmail == guestEmail {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

// Upsert mirrors the production ON CONFLICT semantics: a row for the same
// (event, email) pair keeps its id and created_at, everything else is
// replaced.
func (m *mockRSVPRepo) Upsert(_ context.Context, rsvp *domain.RSVP) (*domain.RSVP, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rsvps {
		if r.EventID == rsvp.EventID && r.GuestEmail == rsvp.GuestEmail {
			r.GuestID = rsvp.GuestID
			r.GuestName = rsvp.GuestName
			r.Status = rsvp.Status
			r.PlusOnes = rsvp.PlusOnes
			r.DietaryRestrictions = rsvp.DietaryRestrictions
			r.Message = rsvp.Message
			r.UpdatedAt = time.Now()
			cp := *r
			return &cp, nil
		}
	}
	cp := *rsvp
	cp.ID = m.nextID
	m.nextID++
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	m.rsvps[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (m *mockRSVPRepo) ListByEvent(_ context.Context, eventID int64) ([]domain.RSVP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RSVP
	for _, r := range m.rsvps {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRSVPRepo) ListByGuestEmail(_ context.Context, guestEmail string, limit, offset int) ([]domain.RSVP, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RSVP
	for _, r := range m.rsvps {
		if r.GuestEmail == guestEmail {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRSVPRepo) CountByEvent(_ context.Context, eventID int64) (int, error) {
	rs, _ := m.ListByEvent(context.Background(), eventID)
	return len(rs), nil
}

type mockUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{nextID: 1, users: make(map[int64]*domain.User)}
}

func (m *mockUserRepo) seed(u domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.nextID
		m.nextID++
	}
	if u.Plan == "" {
		u.Plan = domain.PlanFree
	}
	m.users[u.ID] = &u
	return &u
}

func (m *mockUserRepo) Create(_ context.Context, name, email, passwordHash string, role domain.Role) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &domain.User{
		ID:           m.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Plan:         domain.PlanFree,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.nextID++
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) UpdatePlan(_ context.Context, id int64, plan domain.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %d not found", id)
	}
	u.Plan = plan
	return nil
}

type mockBus struct {
	mu        sync.Mutex
	published []publishedEvent
}

type publishedEvent struct {
	Subject string
	Data    interface{}
}

func (m *mockBus) Publish(_ context.Context, subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, publishedEvent{Subject: subject, Data: data})
	return nil
}

func (m *mockBus) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.published))
	for i, p := range m.published {
		out[i] = p.Subject
	}
	return out
}
