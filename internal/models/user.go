package models

import (
	"encoding/json"
	"time"
	"unicode"
)

// SessionUser — пользователь, вернувшийся из /api/admin/login.
// Хранится в сессии как есть, в JSON.
type SessionUser struct {
	ID        string          `json:"id,omitempty"`
	MongoID   string          `json:"_id,omitempty"`
	Username  string          `json:"username"`
	Email     string          `json:"email,omitempty"`
	Role      string          `json:"role,omitempty"`
	Coins     *int64          `json:"coins,omitempty"`
	Avatar    json.RawMessage `json:"avatar,omitempty"`
	CreatedAt string          `json:"createdAt,omitempty"`
}

// Initial returns the upper-case first letter of the username, "A" when empty.
func (u *SessionUser) Initial() string {
	if u == nil || u.Username == "" {
		return "A"
	}
	return initial(u.Username)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ActivityZone is the moderation state of a user.
type ActivityZone struct {
	Zone   string `json:"zone"`
	Expire string `json:"expire,omitempty"`
}

type UserStats struct {
	Stars    int64 `json:"stars"`
	Diamonds int64 `json:"diamonds"`
	Coins    int64 `json:"coins"`
}

// User is the canonical user shape produced by api.normalizeUser.
type User struct {
	ID        string       `json:"id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	Zone      ActivityZone `json:"activityZone"`
	Stats     UserStats    `json:"stats"`
	Avatar    string       `json:"avatar,omitempty"`
	Level     int          `json:"level,omitempty"`
	CreatedAt *time.Time   `json:"createdAt,omitempty"`
}

// DisplayName falls back to "Unknown" for records without a username.
func (u User) DisplayName() string {
	if u.Username == "" {
		return "Unknown"
	}
	return u.Username
}

func (u User) Initial() string {
	if u.Username == "" {
		return "U"
	}
	return initial(u.Username)
}

// UserPage — ответ /api/power-shared/users.
type UserPage struct {
	Users      []User          `json:"users"`
	Pagination json.RawMessage `json:"pagination,omitempty"`
}

func initial(s string) string {
	for _, r := range s {
		return string(unicode.ToUpper(r))
	}
	return ""
}
