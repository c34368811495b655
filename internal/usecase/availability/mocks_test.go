package availability

import (
	"context"
	"sync"
	"time"

	"github.com/BruksfildServices01/termin-notifier/internal/audit"
	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/models"
	"github.com/BruksfildServices01/termin-notifier/internal/notify"
)

type mockClient struct {
	FetchFn func(ctx context.Context, doctorID uint) (*domain.Snapshot, error)
}

func (m *mockClient) Fetch(ctx context.Context, doctorID uint) (*domain.Snapshot, error) {
	return m.FetchFn(ctx, doctorID)
}

// memSlots is an in-memory slot store keyed by doctor.
type memSlots struct {
	mu      sync.Mutex
	nextID  uint
	doctors map[uint]bool
	rows    map[uint]models.Timeslot

	InsertFn func(doctorID uint, at time.Time) error
}

func newMemSlots(doctorIDs ...uint) *memSlots {
	m := &memSlots{nextID: 1, doctors: map[uint]bool{}, rows: map[uint]models.Timeslot{}}
	for _, id := range doctorIDs {
		m.doctors[id] = true
	}
	return m
}

func (m *memSlots) seed(doctorID uint, ts ...time.Time) {
	for _, t := range ts {
		_, _ = m.Insert(context.Background(), doctorID, t)
	}
}

func (m *memSlots) ListByDoctor(_ context.Context, doctorID uint) ([]models.Timeslot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.doctors[doctorID] {
		return nil, domain.ErrDoctorNotFound
	}
	var out []models.Timeslot
	for _, s := range m.rows {
		if s.DoctorID == doctorID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSlots) Insert(_ context.Context, doctorID uint, at time.Time) (*models.Timeslot, error) {
	if m.InsertFn != nil {
		if err := m.InsertFn(doctorID, at); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := models.Timeslot{ID: m.nextID, DoctorID: doctorID, FreeSlot: at.UTC()}
	m.rows[s.ID] = s
	m.nextID++
	return &s, nil
}

func (m *memSlots) Delete(_ context.Context, slotID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[slotID]; !ok {
		return domain.ErrSlotNotFound
	}
	delete(m.rows, slotID)
	return nil
}

func (m *memSlots) times(doctorID uint) []time.Time {
	slots, _ := m.ListByDoctor(context.Background(), doctorID)
	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.FreeSlot)
	}
	domain.SortTimes(out)
	return out
}

type mockNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
	to      [][]string
}

func (m *mockNotifier) DispatchAll(_ context.Context, n notify.Notice, recipients []string) notify.Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notices = append(m.notices, n)
	m.to = append(m.to, recipients)
	return notify.Report{Sent: recipients}
}

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAuditor) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingAuditor) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

type mockDoctors struct {
	ExistsFn func(id uint) (bool, error)
	CreateFn func(doctor *models.Doctor, slots []time.Time) error
}

func (m *mockDoctors) GetDoctor(context.Context, uint) (*models.Doctor, error) {
	return nil, domain.ErrDoctorNotFound
}

func (m *mockDoctors) ListDoctors(context.Context) ([]models.Doctor, error) { return nil, nil }

func (m *mockDoctors) DoctorExists(_ context.Context, id uint) (bool, error) {
	return m.ExistsFn(id)
}

func (m *mockDoctors) CreateDoctorWithSlots(_ context.Context, doctor *models.Doctor, slots []time.Time) error {
	return m.CreateFn(doctor, slots)
}
