package availability

import (
	"sort"
	"strings"

	"github.com/BruksfildServices01/termin-notifier/internal/models"
)

// DoctorSubscribers is the work item of one cycle: a doctor and the distinct
// addresses to mail when new slots show up.
type DoctorSubscribers struct {
	DoctorID   uint
	DoctorName string
	Emails     []string
}

type SkipReason string

const (
	SkipMissingUser   SkipReason = "missing_user"
	SkipMissingDoctor SkipReason = "missing_doctor"
)

type SkippedSubscription struct {
	SubscriptionID uint
	UserID         uint
	DoctorID       uint
	Reason         SkipReason
}

// GroupSubscribers folds subscription rows (with User and Doctor preloaded)
// into one entry per doctor, ordered by doctor id. Rows whose user or doctor
// is gone are reported instead of grouped.
func GroupSubscribers(subs []models.Subscription) ([]DoctorSubscribers, []SkippedSubscription) {
	byDoctor := make(map[uint]*DoctorSubscribers)
	seen := make(map[uint]map[string]struct{})
	var skipped []SkippedSubscription

	for _, s := range subs {
		switch {
		case s.User == nil:
			skipped = append(skipped, SkippedSubscription{
				SubscriptionID: s.ID, UserID: s.UserID, DoctorID: s.DoctorID, Reason: SkipMissingUser,
			})
			continue
		case s.Doctor == nil:
			skipped = append(skipped, SkippedSubscription{
				SubscriptionID: s.ID, UserID: s.UserID, DoctorID: s.DoctorID, Reason: SkipMissingDoctor,
			})
			continue
		}

		entry, ok := byDoctor[s.DoctorID]
		if !ok {
			entry = &DoctorSubscribers{DoctorID: s.DoctorID, DoctorName: s.Doctor.FullName}
			byDoctor[s.DoctorID] = entry
			seen[s.DoctorID] = make(map[string]struct{})
		}

		email := NormalizeEmail(s.User.Email)
		if email == "" {
			continue
		}
		if _, dup := seen[s.DoctorID][email]; dup {
			continue
		}
		seen[s.DoctorID][email] = struct{}{}
		entry.Emails = append(entry.Emails, email)
	}

	out := make([]DoctorSubscribers, 0, len(byDoctor))
	for _, entry := range byDoctor {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DoctorID < out[j].DoctorID })

	return out, skipped
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
