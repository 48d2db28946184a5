package models

import "time"

// User is the account model. Passwords are stored bcrypt-hashed and never
// serialized.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	IsStaff   bool      `gorm:"not null;default:false" json:"is_staff"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
