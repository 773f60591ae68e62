// Package services contains server-side business logic. This file implements
// AuthService, which owns the credential and session lifecycle: registration,
// email verification, login, access token refresh, and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skurlov/identsvc/internal/common"
	"github.com/skurlov/identsvc/internal/dbx"
	"github.com/skurlov/identsvc/internal/logging"
	"github.com/skurlov/identsvc/internal/server/auth"
	"github.com/skurlov/identsvc/internal/server/config"
	"github.com/skurlov/identsvc/internal/server/models"
	"github.com/skurlov/identsvc/internal/server/notify"
	"github.com/skurlov/identsvc/internal/server/repositories/repomanager"
)

// codeLength is the number of digits in a one-time verification code.
const codeLength = 6

// PasswordHasher abstracts the password hashing scheme. Verify reports a
// mismatch as (false, nil); an error means the stored hash could not be
// processed at all.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}

// LoginResult bundles the tokens minted on a successful login together with
// the authenticated user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// AuthService provides authentication-related operations:
// - Register: create users and issue verification codes
// - VerifyEmail: consume a code and activate the account
// - Login: verify credentials and mint an access/refresh pair
// - Refresh: mint a new access token from a live session
// - Logout: revoke every session of a user
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	hasher                       PasswordHasher
	notifier                     notify.Notifier
	logger                       logging.Logger
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	codeValidityDuration         time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, hasher PasswordHasher,
	notifier notify.Notifier, logger logging.Logger, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		hasher:                       hasher,
		notifier:                     notifier,
		logger:                       logger,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		codeValidityDuration:         cfg.CodeValidityDuration,
	}
}

// Register creates a new unverified, inactive user and issues an email
// verification code. The user row and the code land in one transaction;
// the notification is sent after commit and a delivery failure is logged
// but never fails the registration.
func (s *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {

	email = normalizeEmail(email)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrInternal
	}

	code, err := common.GenerateOTPCode(codeLength)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		AuthProvider: models.ProviderLocal,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			if errors.Is(err, common.ErrDuplicateEmail) {
				return err
			}
			return fmt.Errorf("error creating user: %w", err)
		}
		user = created

		return s.issueCode(ctx, tx, email, models.PurposeEmailVerification, code)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendVerificationCode(ctx, email, code); err != nil {
		s.logger.Error(ctx, "verification code delivery failed", "email", email, "error", err)
	}

	return user, nil
}

// VerifyEmail consumes an email verification code and activates the account.
// Both transitions land in one transaction: if activation fails, the code
// stays unconsumed.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {

	email = normalizeEmail(email)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Codes(tx).Consume(ctx, email, code, models.PurposeEmailVerification)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrInvalidOrExpiredCode
			}
			return fmt.Errorf("error consuming verification code: %w", err)
		}

		err = s.repomanager.Users(tx).Activate(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrUserNotFound
			}
			return fmt.Errorf("error activating user: %w", err)
		}

		return nil
	})
}

// ResendVerification issues a fresh verification code for a registered but
// not yet verified email. Previously issued codes stay valid until they
// expire on their own.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {

	email = normalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUserNotFound
		}
		return fmt.Errorf("error searching user: %w", err)
	}
	if user.IsVerified {
		return common.ErrAlreadyVerified
	}

	code, err := common.GenerateOTPCode(codeLength)
	if err != nil {
		return common.ErrInternal
	}

	if err := s.issueCode(ctx, s.db, email, models.PurposeEmailVerification, code); err != nil {
		return err
	}

	if err := s.notifier.SendVerificationCode(ctx, email, code); err != nil {
		s.logger.Error(ctx, "verification code delivery failed", "email", email, "error", err)
	}

	return nil
}

// Login verifies the user's password and, on success, opens a session and
// returns an access/refresh token pair. An unknown email and a wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {

	email = normalizeEmail(email)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	// The verified check comes before the password check: an unverified
	// account fails with ErrNotVerified no matter what password was sent.
	if !user.IsVerified {
		return nil, common.ErrNotVerified
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, common.ErrInternal
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, common.ErrInactive
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, common.ErrInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrInternal
	}

	err = s.repomanager.Sessions(s.db).Create(ctx, user.ID, refreshToken, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &LoginResult{AccessToken: accessToken, RefreshToken: refreshToken, User: user}, nil
}

// Refresh resolves a refresh token to its live session and mints a new
// access token. The refresh token itself is not rotated; it stays valid
// until its own expiry or an explicit revocation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {

	if refreshToken == "" {
		return "", common.ErrInvalidToken
	}

	session, err := s.repomanager.Sessions(s.db).FindActive(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrTokenExpiredOrRevoked
		}
		return "", fmt.Errorf("error searching session: %w", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrTokenExpiredOrRevoked
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", common.ErrInternal
	}

	return accessToken, nil
}

// CurrentUser resolves an access token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {

	claims, err := auth.ParseAccessToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, common.ErrInvalidToken
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	return user, nil
}

// Logout revokes every live session of the user. A user with no live
// sessions logs out successfully.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.repomanager.Sessions(s.db).RevokeAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking sessions: %w", err)
	}
	return nil
}

// --- helpers below ---

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) generateAccessToken(user *models.User) (string, error) {
	return auth.GenerateAccessToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *AuthService) issueCode(ctx context.Context, db dbx.DBTX, email string, purpose models.CodePurpose, code string) error {
	vc := &models.VerificationCode{
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.codeValidityDuration),
	}
	if err := s.repomanager.Codes(db).Create(ctx, vc); err != nil {
		return fmt.Errorf("error storing verification code: %w", err)
	}
	return nil
}
