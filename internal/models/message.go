package models

import "time"

// Message is a single post belonging to exactly one thread. Messages are
// immutable and never deleted, so id order equals creation order.
type Message struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	ThreadID  uint64    `gorm:"index;not null" json:"thread_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
