package models

import "time"

type Timeslot struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	DoctorID uint      `gorm:"index;not null" json:"doctor_id"`
	FreeSlot time.Time `gorm:"not null" json:"free_slot"`

	CreatedAt time.Time `json:"created_at"`
}

func (Timeslot) TableName() string {
	return "free_slots"
}
