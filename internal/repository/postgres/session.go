package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/authsvc/internal/models"
)

type SessionRepo struct {
	DB DBTX
}

const saveSession = `-- name: SaveSession
INSERT INTO sessions (token, user_id)
VALUES ($1, $2)
ON CONFLICT (token) DO UPDATE
SET user_id = excluded.user_id, created_at = now()
RETURNING token, user_id, created_at
`

// Insert session or replace the row with the same token
// Tokens are random per login, so one user may hold several live sessions
func (r *SessionRepo) SaveSession(ctx context.Context, token string, userID int64) (models.Session, error) {
	rows, _ := r.DB.Query(ctx, saveSession, token, userID)
	session, err := pgx.CollectOneRow(rows, rowToSession)
	if err != nil {
		return session, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

const deleteSession = `-- name: DeleteSession
DELETE FROM sessions
WHERE token = $1
`

// Delete session by token
// Deleting a token that does not exist is fine, logout stays idempotent
func (r *SessionRepo) DeleteSession(ctx context.Context, token string) error {
	_, err := r.DB.Exec(ctx, deleteSession, token)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const deleteUserSessions = `-- name: DeleteUserSessions
DELETE FROM sessions
WHERE user_id = $1
`

func (r *SessionRepo) DeleteUserSessions(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.DB.Exec(ctx, deleteUserSessions, userID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return tag.RowsAffected(), nil
}

func rowToSession(row pgx.CollectableRow) (models.Session, error) {
	var s models.Session
	err := row.Scan(&s.Token, &s.UserID, &s.CreatedAt)
	return s, err
}
