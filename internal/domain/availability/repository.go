package availability

import (
	"context"
	"time"

	"github.com/BruksfildServices01/termin-notifier/internal/models"
)

// Snapshot is one fresh read of a doctor's remote availability.
// Slots are UTC, deduplicated and ascending.
type Snapshot struct {
	DoctorName string
	Slots      []time.Time
}

type AvailabilityClient interface {
	Fetch(ctx context.Context, doctorID uint) (*Snapshot, error)
}

type SlotStore interface {
	// ListByDoctor returns ErrDoctorNotFound when the doctor row is absent.
	// A known doctor without slots yields an empty slice.
	ListByDoctor(ctx context.Context, doctorID uint) ([]models.Timeslot, error)
	Insert(ctx context.Context, doctorID uint, at time.Time) (*models.Timeslot, error)
	Delete(ctx context.Context, slotID uint) error
}

type DoctorRepository interface {
	GetDoctor(ctx context.Context, id uint) (*models.Doctor, error)
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	DoctorExists(ctx context.Context, id uint) (bool, error)

	// CreateDoctorWithSlots stores the doctor and its seed slots atomically.
	CreateDoctorWithSlots(ctx context.Context, doctor *models.Doctor, slots []time.Time) error
}

type SubscriptionSource interface {
	ListDoctorSubscribers(ctx context.Context) ([]DoctorSubscribers, []SkippedSubscription, error)
}

type SubscriptionRepository interface {
	SubscriptionSource

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)

	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	DeleteSubscription(ctx context.Context, id uint) error
	ListSubscriptionsByUser(ctx context.Context, userID uint) ([]models.Subscription, error)
}
