package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/termin-notifier/internal/audit"
	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	ucAvailability "github.com/BruksfildServices01/termin-notifier/internal/usecase/availability"
)

var ErrCycleInProgress = errors.New("cycle already in progress")

// Runner reconciles a single doctor.
type Runner interface {
	Execute(ctx context.Context, target domain.DoctorSubscribers, cycleID string) (*ucAvailability.ReconcileResult, error)
}

type Options struct {
	Interval    time.Duration
	Concurrency int
	LockTTL     time.Duration
}

// CycleReport summarises one pass over every subscribed doctor.
type CycleReport struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Doctors   int           `json:"doctors"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Inserted  int           `json:"inserted"`
	Deleted   int           `json:"deleted"`
	Notified  int           `json:"notified"`

	// LockHeld is set when another process owned the cycle lock.
	LockHeld bool `json:"lock_held,omitempty"`
}

type Scheduler struct {
	opts    Options
	source  domain.SubscriptionSource
	runner  Runner
	locker  Locker
	audit   audit.Auditor
	log     *zap.Logger
	running atomic.Bool

	mu     sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
}

func New(
	opts Options,
	source domain.SubscriptionSource,
	runner Runner,
	locker Locker,
	auditor audit.Auditor,
	log *zap.Logger,
) *Scheduler {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 15 * time.Minute
	}
	if locker == nil {
		locker = NewLocalLocker()
	}
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Scheduler{
		opts:   opts,
		source: source,
		runner: runner,
		locker: locker,
		audit:  auditor,
		log:    log,
	}
}

// ======================================================
// LIFECYCLE
// ======================================================

// Start schedules a cycle every Interval. The first cycle runs after one
// interval; an overlapping tick is skipped, never queued.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return errors.New("scheduler already started")
	}
	if s.opts.Interval <= 0 {
		return fmt.Errorf("invalid interval %s", s.opts.Interval)
	}

	runCtx, cancel := context.WithCancel(ctx)
	logger := newCronLogger(s.log)

	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(cron.Every(s.opts.Interval), cron.FuncJob(func() {
		if _, err := s.RunCycle(runCtx); err != nil && !errors.Is(err, ErrCycleInProgress) {
			s.log.Error("cycle failed", zap.Error(err))
		}
	}))
	c.Start()

	s.cron = c
	s.cancel = cancel

	s.log.Info("scheduler started",
		zap.Duration("interval", s.opts.Interval),
		zap.Int("concurrency", s.opts.Concurrency),
	)
	return nil
}

// Stop cancels a running cycle and waits for it to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	if c == nil {
		return
	}

	cancel()
	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
}

// ======================================================
// CYCLE
// ======================================================

// RunCycle reconciles every subscribed doctor once. It returns
// ErrCycleInProgress when a cycle is already running in this process.
func (s *Scheduler) RunCycle(ctx context.Context) (*CycleReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrCycleInProgress
	}
	defer s.running.Store(false)

	report := &CycleReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	log := s.log.With(zap.String("cycle_id", report.ID))

	// --------------------------------------------------
	// Lock
	// --------------------------------------------------
	acquired, token, err := s.locker.TryLock(ctx, cycleLockKey, s.opts.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire cycle lock: %w", err)
	}
	if !acquired {
		log.Info("cycle lock held elsewhere, skipping")
		report.LockHeld = true
		return report, nil
	}
	defer func() {
		// the run context may already be cancelled
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.locker.Unlock(unlockCtx, cycleLockKey, token); err != nil {
			log.Warn("release cycle lock", zap.Error(err))
		}
	}()

	// --------------------------------------------------
	// Targets
	// --------------------------------------------------
	targets, skipped, err := s.source.ListDoctorSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	for _, sk := range skipped {
		log.Warn("subscription skipped",
			zap.Uint("subscription_id", sk.SubscriptionID),
			zap.Uint("user_id", sk.UserID),
			zap.Uint("doctor_id", sk.DoctorID),
			zap.String("reason", string(sk.Reason)),
		)
	}

	report.Doctors = len(targets)

	// --------------------------------------------------
	// Doctors
	// --------------------------------------------------
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.opts.Concurrency)

	for _, target := range targets {
		g.Go(func() error {
			out := s.runDoctor(ctx, log, report.ID, target)

			mu.Lock()
			defer mu.Unlock()
			out.addTo(report)
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(report.StartedAt)
	log.Info("cycle finished",
		zap.Int("doctors", report.Doctors),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("inserted", report.Inserted),
		zap.Int("deleted", report.Deleted),
		zap.Int("notified", report.Notified),
		zap.Duration("duration", report.Duration),
	)

	return report, nil
}

type doctorOutcome struct {
	skipped bool
	failed  bool
	result  *ucAvailability.ReconcileResult
}

func (o doctorOutcome) addTo(r *CycleReport) {
	switch {
	case o.skipped:
		r.Skipped++
	case o.failed:
		r.Failed++
	}
	if o.result != nil {
		r.Inserted += len(o.result.Inserted)
		r.Deleted += o.result.Deleted
		r.Notified += len(o.result.Notify.Sent)
	}
}

// runDoctor never lets one doctor's failure escape into the cycle.
func (s *Scheduler) runDoctor(
	ctx context.Context,
	log *zap.Logger,
	cycleID string,
	target domain.DoctorSubscribers,
) (out doctorOutcome) {

	log = log.With(zap.Uint("doctor_id", target.DoctorID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("doctor reconciliation panicked", zap.Any("panic", r), zap.Stack("stack"))
			out = doctorOutcome{failed: true}
		}
	}()

	if err := ctx.Err(); err != nil {
		return doctorOutcome{skipped: true}
	}

	res, err := s.runner.Execute(ctx, target, cycleID)
	if err == nil {
		return doctorOutcome{result: res}
	}

	if fe, ok := domain.AsFetchError(err); ok {
		log.Warn("doctor unavailable, skipping",
			zap.String("kind", fe.Kind.String()),
			zap.Int("status", fe.StatusCode),
			zap.Error(err),
		)
		s.audit.Dispatch(audit.Event{
			CycleID:  cycleID,
			DoctorID: target.DoctorID,
			Action:   audit.ActionDoctorSkipped,
			Entity:   "doctor",
			Metadata: map[string]any{"reason": fe.Kind.String(), "status": fe.StatusCode},
		})
		return doctorOutcome{skipped: true}
	}

	if errors.Is(err, domain.ErrDoctorNotFound) {
		log.Warn("doctor missing from store, skipping")
		s.audit.Dispatch(audit.Event{
			CycleID:  cycleID,
			DoctorID: target.DoctorID,
			Action:   audit.ActionDoctorSkipped,
			Entity:   "doctor",
			Metadata: map[string]any{"reason": "missing_doctor"},
		})
		return doctorOutcome{skipped: true}
	}

	log.Error("doctor reconciliation failed", zap.Error(err))
	return doctorOutcome{failed: true, result: res}
}
