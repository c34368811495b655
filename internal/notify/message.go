package notify

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
)

const (
	Subject = "New Available Appointment Slot!"

	// SlotLayout renders e.g. "08:00, 01 Nov 2025".
	SlotLayout = "15:04, 02 Jan 2006"
)

type Message struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// Notice is what a doctor's reconciliation produced for subscribers.
type Notice struct {
	DoctorID   uint
	DoctorName string
	Slots      []time.Time
}

// Body renders the slots ascending in loc.
func (n Notice) Body(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	slots := domain.DedupeTimes(n.Slots)
	formatted := make([]string, 0, len(slots))
	for _, s := range slots {
		formatted = append(formatted, s.In(loc).Format(SlotLayout))
	}

	return fmt.Sprintf("Doctor %s has new slots available on: %s", n.DoctorName, strings.Join(formatted, ", "))
}

func (n Notice) MessageFor(to string, loc *time.Location) Message {
	return Message{
		To:      to,
		Subject: Subject,
		Body:    n.Body(loc),
	}
}
