package models

import "time"

// User represents a registered account. Passwords are stored as bcrypt
// hashes only; the hash never appears in JSON output.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Firstname    string    `gorm:"size:64" json:"firstname"`
	Lastname     string    `gorm:"size:64" json:"lastname"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Comments     []Comment `json:"-"`
}
