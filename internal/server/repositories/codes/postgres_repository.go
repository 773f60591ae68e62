package codes

import (
	"context"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, code *models.VerificationCode) error {

	query :=
		`INSERT INTO verification_codes (email, code, purpose, expires_at)
	     VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query, code.Email, code.Code, code.Purpose, code.ExpiresAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Consume(ctx context.Context, email, code string, purpose models.CodePurpose) error {

	// The validity predicate lives inside the UPDATE so that two requests
	// racing for the same code can never both win.
	query :=
		`UPDATE verification_codes SET is_used = true
		 WHERE email = $1 AND code = $2 AND purpose = $3
		   AND is_used = false AND expires_at > now()
		 `

	res, err := r.db.ExecContext(ctx, query, email, code, purpose)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}
