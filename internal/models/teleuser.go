// ABOUTME: TelegramUser model for bot authorization state.
// ABOUTME: Tracks login attempts and the allowed flag per Telegram account.
package models

import "time"

// MaxLoginAttempts is the number of secret phrase attempts before the
// bot stops responding to a user.
const MaxLoginAttempts = 3

// TelegramUser holds per-user bot authorization state.
type TelegramUser struct {
	UserID        int64     `json:"user_id" yaml:"user_id"`
	FirstName     string    `json:"first_name" yaml:"first_name"`
	LastName      string    `json:"last_name" yaml:"last_name"`
	LoginAttempts int       `json:"login_attempts" yaml:"login_attempts"`
	Allowed       bool      `json:"allowed" yaml:"allowed"`
	SeenAt        time.Time `json:"seen_at" yaml:"seen_at"`
}

// Blocked reports whether the user has exhausted all attempts without
// entering the correct secret phrase.
func (u *TelegramUser) Blocked() bool {
	return !u.Allowed && u.LoginAttempts >= MaxLoginAttempts
}
