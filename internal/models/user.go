package models

import (
	"database/sql"
	"time"

	"github.com/gurkanbulca/taskboard/internal/board"
)

type User struct {
	ID          string         `db:"id"`
	Email       string         `db:"email"`
	DisplayName string         `db:"display_name"`
	AvatarURL   sql.NullString `db:"avatar_url"`
	CreatedAt   time.Time      `db:"created_at"`
}

// UserColumns lists the columns scanned into User
var UserColumns = []string{"id", "email", "display_name", "avatar_url", "created_at"}

// ToBoard returns the display info shown on task cards
func (u *User) ToBoard() board.User {
	return board.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL.String,
	}
}
