package domain

import "time"

// User - registered account stored in Postgres.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserInfo - the public projection of a user returned by auth endpoints.
type UserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session - one authenticated identity plus its bearer credential. At most
// one session is active per client instance.
type Session struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

func (u *User) Info() UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
