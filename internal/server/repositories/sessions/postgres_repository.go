package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/skurlov/identsvc/internal/common"
	"github.com/skurlov/identsvc/internal/dbx"
	"github.com/skurlov/identsvc/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID string, token string, validity time.Duration) error {

	query :=
		`INSERT INTO sessions (user_id, token, expires_at)
	     VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, userID, token, time.Now().Add(validity))

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) FindActive(ctx context.Context, token string) (*models.Session, error) {

	query :=
		`SELECT user_id, expires_at, created_at FROM sessions
		 WHERE token = $1 AND revoked = false AND expires_at > now()
		 `

	session := &models.Session{Token: token}
	err := r.db.QueryRowContext(ctx, query, token).Scan(&session.UserID, &session.ExpiresAt, &session.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) RevokeAllForUser(ctx context.Context, userID string) error {

	query :=
		`UPDATE sessions SET revoked = true
		 WHERE user_id = $1 AND revoked = false
		 `

	_, err := r.db.ExecContext(ctx, query, userID)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
