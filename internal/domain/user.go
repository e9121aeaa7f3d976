package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// User is a registered account. Identity is the (name, email) pair; there
// is no password in this design.
type User struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_users_identity"`
	Email     string    `json:"email" gorm:"not null;uniqueIndex:idx_users_identity"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsValid() error {
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return errors.New("email format invalid")
	}
	return nil
}
