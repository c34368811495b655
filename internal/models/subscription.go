package models

import "time"

// Subscription links a user to a doctor whose new slots they want mailed.
// User and Doctor are nil after preloading when the referenced row is gone.
type Subscription struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`

	DoctorID uint    `gorm:"index;not null" json:"doctor_id"`
	Doctor   *Doctor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"doctor,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
