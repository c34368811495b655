package models

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "app_users"
}
