package scheduler

import (
	"context"
	"sync"

	"github.com/BruksfildServices01/termin-notifier/internal/audit"
	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	ucAvailability "github.com/BruksfildServices01/termin-notifier/internal/usecase/availability"
)

type mockSource struct {
	ListFn func(ctx context.Context) ([]domain.DoctorSubscribers, []domain.SkippedSubscription, error)
}

func (m *mockSource) ListDoctorSubscribers(ctx context.Context) ([]domain.DoctorSubscribers, []domain.SkippedSubscription, error) {
	return m.ListFn(ctx)
}

type mockRunner struct {
	mu    sync.Mutex
	calls []uint

	ExecuteFn func(ctx context.Context, target domain.DoctorSubscribers) (*ucAvailability.ReconcileResult, error)
}

func (m *mockRunner) Execute(ctx context.Context, target domain.DoctorSubscribers, _ string) (*ucAvailability.ReconcileResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, target.DoctorID)
	m.mu.Unlock()
	return m.ExecuteFn(ctx, target)
}

func (m *mockRunner) called() []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint(nil), m.calls...)
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
