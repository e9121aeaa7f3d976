package domain

import "time"

// TitleMaxLen is the number of leading characters of the first user message
// kept as the conversation title.
const TitleMaxLen = 20

// Conversation is a single chat thread owned by one user. It is created
// lazily on the first message of a new chat, never without one.
type Conversation struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Title     string    `json:"title" gorm:"not null"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`
}

// DeriveTitle builds a conversation title from the first user message:
// the first TitleMaxLen characters, with "..." appended when truncated.
func DeriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= TitleMaxLen {
		return text
	}
	return string(runes[:TitleMaxLen]) + "..."
}
