package domain

import "time"

// Message roles. "bot" covers both local knowledge answers and answers
// from the external reasoning service.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message is one entry in a conversation, immutable once stored. Within a
// conversation messages are ordered by creation time, ties by insertion
// order (ID).
type Message struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	ConversationID uint      `json:"conversation_id" gorm:"not null;index"`
	Role           string    `json:"role" gorm:"not null"`
	Text           string    `json:"text" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsValidRole reports whether role is one of the two accepted values.
func IsValidRole(role string) bool {
	return role == RoleUser || role == RoleBot
}
