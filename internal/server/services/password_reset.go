package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/skurlov/identsvc/internal/common"
	"github.com/skurlov/identsvc/internal/dbx"
	"github.com/skurlov/identsvc/internal/server/models"
)

// ForgotPassword issues a password reset code for the given email. It always
// reports success so that the response cannot be used to probe whether an
// account exists; every internal failure is logged instead.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {

	email = normalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Error(ctx, "password reset lookup failed", "email", email, "error", err)
		}
		return nil
	}

	code, err := common.GenerateOTPCode(codeLength)
	if err != nil {
		s.logger.Error(ctx, "password reset code generation failed", "error", err)
		return nil
	}

	if err := s.issueCode(ctx, s.db, user.Email, models.PurposePasswordReset, code); err != nil {
		s.logger.Error(ctx, "password reset code store failed", "email", email, "error", err)
		return nil
	}

	if err := s.notifier.SendPasswordResetCode(ctx, user.Email, code); err != nil {
		s.logger.Error(ctx, "password reset code delivery failed", "email", email, "error", err)
	}

	return nil
}

// ResetPassword consumes a password reset code, replaces the password hash,
// and revokes every session of the user. All three transitions land in one
// transaction; a refresh token issued before the reset is unusable after it.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {

	email = normalizeEmail(email)

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrInternal
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Codes(tx).Consume(ctx, email, code, models.PurposePasswordReset)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidOrExpiredCode
			}
			return fmt.Errorf("error consuming reset code: %w", err)
		}

		user, err := s.repomanager.Users(tx).GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("error searching user: %w", err)
		}

		if err := s.repomanager.Users(tx).UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}

		if err := s.repomanager.Sessions(tx).RevokeAllForUser(ctx, user.ID); err != nil {
			return fmt.Errorf("error revoking sessions: %w", err)
		}

		return nil
	})
}
