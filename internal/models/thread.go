package models

import "time"

// Thread is a top-level discussion topic. Threads are immutable once created
// and are never deleted. No creator is recorded: any authenticated user may
// post into any thread.
type Thread struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`

	Messages []Message `gorm:"foreignKey:ThreadID" json:"-"`
}
