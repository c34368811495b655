package dto

import "github.com/BruksfildServices01/termin-notifier/internal/models"

type DoctorDTO struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

type RegisteredDoctorDTO struct {
	DoctorDTO
	SeededSlots int `json:"seeded_slots"`
}

func NewDoctorDTO(d models.Doctor) DoctorDTO {
	return DoctorDTO{ID: d.ID, FullName: d.FullName}
}
