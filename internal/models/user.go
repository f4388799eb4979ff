package models

import "time"

// User is an identity record in the `users` table. The password hash never
// leaves the process: it is excluded from JSON and only compared through
// pkg/crypto. IsVerified is stored on registration but not yet read anywhere;
// enforcing it at login is a known gap left open on purpose.
type User struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsVerified   bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}
