package models

import "time"

// Doctor ids come from the remote scheduling system; they are never generated locally.
type Doctor struct {
	ID       uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FullName string `gorm:"size:150;not null" json:"full_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
