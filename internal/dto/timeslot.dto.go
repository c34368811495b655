package dto

import (
	"time"

	"github.com/BruksfildServices01/termin-notifier/internal/models"
)

type TimeslotDTO struct {
	ID       uint      `json:"id"`
	DoctorID uint      `json:"doctor_id"`
	FreeSlot time.Time `json:"free_slot"`
}

func NewTimeslotDTO(s models.Timeslot) TimeslotDTO {
	return TimeslotDTO{
		ID:       s.ID,
		DoctorID: s.DoctorID,
		FreeSlot: s.FreeSlot.UTC(),
	}
}
