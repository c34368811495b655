package availability

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/termin-notifier/internal/audit"
	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/httperr"
	"github.com/BruksfildServices01/termin-notifier/internal/models"
	"github.com/BruksfildServices01/termin-notifier/internal/timezone"
)

type RegisterDoctor struct {
	client  domain.AvailabilityClient
	doctors domain.DoctorRepository
	audit   audit.Auditor
	log     *zap.Logger
	now     func() time.Time
}

func NewRegisterDoctor(
	client domain.AvailabilityClient,
	doctors domain.DoctorRepository,
	auditor audit.Auditor,
	log *zap.Logger,
) *RegisterDoctor {
	return &RegisterDoctor{
		client:  client,
		doctors: doctors,
		audit:   auditor,
		log:     log,
		now:     timezone.Now,
	}
}

type RegisteredDoctor struct {
	Doctor      *models.Doctor
	SeededSlots int
}

// Execute adds a doctor known to the remote system and seeds its upcoming
// slots. Seeding never notifies.
func (uc *RegisterDoctor) Execute(ctx context.Context, doctorID uint) (*RegisteredDoctor, error) {
	exists, err := uc.doctors.DoctorExists(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, httperr.ErrBusiness(httperr.CodeDoctorAlreadyExists)
	}

	snap, err := uc.client.Fetch(ctx, doctorID)
	if err != nil {
		uc.log.Warn("doctor registration fetch failed",
			zap.Uint("doctor_id", doctorID),
			zap.Error(err),
		)
		if fe, ok := domain.AsFetchError(err); ok && fe.Kind == domain.FetchNotFound {
			return nil, httperr.ErrBusiness(httperr.CodeDoctorNotFound)
		}
		return nil, httperr.ErrBusiness(httperr.CodeDoctorUnavailable)
	}

	now := uc.now().UTC()
	seed := make([]time.Time, 0, len(snap.Slots))
	for _, at := range snap.Slots {
		if !at.Before(now) {
			seed = append(seed, at)
		}
	}

	doctor := &models.Doctor{ID: doctorID, FullName: snap.DoctorName}
	if err := uc.doctors.CreateDoctorWithSlots(ctx, doctor, seed); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: doctorID,
		Action:   audit.ActionDoctorRegistered,
		Entity:   "doctor",
		EntityID: &doctor.ID,
		Metadata: map[string]any{"seeded_slots": len(seed)},
	})

	return &RegisteredDoctor{Doctor: doctor, SeededSlots: len(seed)}, nil
}
