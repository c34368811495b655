package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/termin-notifier/internal/audit"
	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/notify"
	"github.com/BruksfildServices01/termin-notifier/internal/timezone"
)

// ======================================================
// PORTS
// ======================================================

type Notifier interface {
	DispatchAll(ctx context.Context, notice notify.Notice, recipients []string) notify.Report
}

// ======================================================
// RESULT
// ======================================================

type ReconcileResult struct {
	DoctorID uint
	Deleted  int
	Inserted []time.Time
	Notify   notify.Report
}

// ======================================================
// USE CASE
// ======================================================

type ReconcileDoctor struct {
	client   domain.AvailabilityClient
	slots    domain.SlotStore
	notifier Notifier
	audit    audit.Auditor
	log      *zap.Logger
	now      func() time.Time
}

func NewReconcileDoctor(
	client domain.AvailabilityClient,
	slots domain.SlotStore,
	notifier Notifier,
	auditor audit.Auditor,
	log *zap.Logger,
) *ReconcileDoctor {
	return &ReconcileDoctor{
		client:   client,
		slots:    slots,
		notifier: notifier,
		audit:    auditor,
		log:      log,
		now:      timezone.Now,
	}
}

// WithClock replaces the reconciliation clock.
func (uc *ReconcileDoctor) WithClock(now func() time.Time) *ReconcileDoctor {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

// Execute runs fetch, reconcile, apply and notify for one doctor. A fetch
// failure is returned untouched (a *domain.FetchError) before any mutation.
// A store failure stops the apply step; slots inserted before it are still
// notified and the store error is returned.
func (uc *ReconcileDoctor) Execute(
	ctx context.Context,
	target domain.DoctorSubscribers,
	cycleID string,
) (*ReconcileResult, error) {

	// --------------------------------------------------
	// Fetch
	// --------------------------------------------------
	snap, err := uc.client.Fetch(ctx, target.DoctorID)
	if err != nil {
		return nil, err
	}

	local, err := uc.slots.ListByDoctor(ctx, target.DoctorID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Reconcile
	// --------------------------------------------------
	plan := domain.Reconcile(local, snap.Slots, uc.now().UTC())
	result := &ReconcileResult{DoctorID: target.DoctorID}

	if plan.Empty() {
		uc.log.Debug("doctor up to date", zap.Uint("doctor_id", target.DoctorID))
		return result, nil
	}

	// --------------------------------------------------
	// Apply
	// --------------------------------------------------
	applyErr := uc.apply(ctx, plan, result)

	uc.emitSlotEvents(cycleID, target.DoctorID, result)

	// --------------------------------------------------
	// Notify
	// --------------------------------------------------
	if len(result.Inserted) > 0 {
		name := snap.DoctorName
		if name == "" {
			name = target.DoctorName
		}

		result.Notify = uc.notifier.DispatchAll(ctx, notify.Notice{
			DoctorID:   target.DoctorID,
			DoctorName: name,
			Slots:      result.Inserted,
		}, target.Emails)

		uc.emitNotifyEvents(cycleID, target.DoctorID, result.Notify)
	}

	if applyErr != nil {
		return result, fmt.Errorf("apply plan for doctor %d: %w", target.DoctorID, applyErr)
	}
	return result, nil
}

func (uc *ReconcileDoctor) apply(ctx context.Context, plan domain.Plan, result *ReconcileResult) error {
	for _, s := range plan.ToDelete {
		if err := uc.slots.Delete(ctx, s.ID); err != nil {
			if errors.Is(err, domain.ErrSlotNotFound) {
				continue
			}
			return err
		}
		result.Deleted++
	}

	for _, at := range plan.ToInsert {
		if _, err := uc.slots.Insert(ctx, result.DoctorID, at); err != nil {
			return err
		}
		result.Inserted = append(result.Inserted, at)
	}

	return nil
}

func (uc *ReconcileDoctor) emitSlotEvents(cycleID string, doctorID uint, r *ReconcileResult) {
	if r.Deleted > 0 {
		uc.audit.Dispatch(audit.Event{
			CycleID:  cycleID,
			DoctorID: doctorID,
			Action:   audit.ActionSlotsDeleted,
			Entity:   "timeslot",
			Metadata: map[string]any{"count": r.Deleted},
		})
	}

	if len(r.Inserted) > 0 {
		uc.audit.Dispatch(audit.Event{
			CycleID:  cycleID,
			DoctorID: doctorID,
			Action:   audit.ActionSlotsInserted,
			Entity:   "timeslot",
			Metadata: map[string]any{"count": len(r.Inserted), "slots": r.Inserted},
		})
	}
}

func (uc *ReconcileDoctor) emitNotifyEvents(cycleID string, doctorID uint, rep notify.Report) {
	if len(rep.Sent) > 0 {
		uc.audit.Dispatch(audit.Event{
			CycleID:  cycleID,
			DoctorID: doctorID,
			Action:   audit.ActionNotificationSent,
			Entity:   "notification",
			Metadata: map[string]any{"recipients": rep.Sent},
		})
	}

	if failed := append(append([]string(nil), rep.Failed...), rep.Invalid...); len(failed) > 0 {
		uc.audit.Dispatch(audit.Event{
			CycleID:  cycleID,
			DoctorID: doctorID,
			Action:   audit.ActionNotificationFailed,
			Entity:   "notification",
			Metadata: map[string]any{"failed": rep.Failed, "invalid": rep.Invalid},
		})
	}
}
