// ABOUTME: Telegram user persistence backing the bot authorization flow.
// ABOUTME: Select-then-insert-or-update, one row per Telegram account.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/antarcticrainforest/babymeasure/internal/babyerr"
	"github.com/antarcticrainforest/babymeasure/internal/models"
)

// GetTelegramUser retrieves a bot user by Telegram account ID.
func (d *DB) GetTelegramUser(ctx context.Context, userID int64) (*models.TelegramUser, error) {
	query := `
		SELECT user_id, first_name, last_name, login_attempts, allowed, seen_at
		FROM telegram_users WHERE user_id = ?
	`
	var u models.TelegramUser
	var seenAt string
	err := d.db.QueryRowContext(ctx, query, userID).Scan(
		&u.UserID, &u.FirstName, &u.LastName, &u.LoginAttempts, &u.Allowed, &seenAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: telegram user %d", babyerr.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("get telegram user: %w", classify(err))
	}
	u.SeenAt, _ = time.Parse(time.RFC3339, seenAt)
	return &u, nil
}

// SaveTelegramUser inserts or updates a bot user.
func (d *DB) SaveTelegramUser(ctx context.Context, u *models.TelegramUser) error {
	if u == nil || u.UserID == 0 {
		return fmt.Errorf("%w: missing telegram user id", babyerr.ErrValidation)
	}
	seenAt := u.SeenAt
	if seenAt.IsZero() {
		seenAt = time.Now()
	}

	var exists int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM telegram_users WHERE user_id = ?", u.UserID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("save telegram user: %w", classify(err))
	}

	if exists > 0 {
		_, err = d.db.ExecContext(ctx, `
			UPDATE telegram_users
			SET first_name = ?, last_name = ?, login_attempts = ?, allowed = ?, seen_at = ?
			WHERE user_id = ?`,
			u.FirstName, u.LastName, u.LoginAttempts, u.Allowed,
			seenAt.UTC().Format(time.RFC3339), u.UserID)
	} else {
		_, err = d.db.ExecContext(ctx, `
			INSERT INTO telegram_users (user_id, first_name, last_name, login_attempts, allowed, seen_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			u.UserID, u.FirstName, u.LastName, u.LoginAttempts, u.Allowed,
			seenAt.UTC().Format(time.RFC3339))
	}
	if err != nil {
		return fmt.Errorf("save telegram user: %w", classify(err))
	}
	return nil
}

func (d *DB) listTelegramUsers(ctx context.Context) ([]*models.TelegramUser, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT user_id, first_name, last_name, login_attempts, allowed, seen_at
		FROM telegram_users ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list telegram users: %w", classify(err))
	}
	defer rows.Close()

	var users []*models.TelegramUser
	for rows.Next() {
		var u models.TelegramUser
		var seenAt string
		if err := rows.Scan(&u.UserID, &u.FirstName, &u.LastName,
			&u.LoginAttempts, &u.Allowed, &seenAt); err != nil {
			return nil, fmt.Errorf("scan telegram user: %w", err)
		}
		u.SeenAt, _ = time.Parse(time.RFC3339, seenAt)
		users = append(users, &u)
	}
	return users, rows.Err()
}
