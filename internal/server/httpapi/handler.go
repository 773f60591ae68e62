// Package httpapi exposes the authentication operations over a JSON HTTP
// API. Handlers translate between wire shapes and the service layer; no
// business rules live here.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/skurlov/identsvc/internal/common"
	"github.com/skurlov/identsvc/internal/logging"
	"github.com/skurlov/identsvc/internal/server/models"
	"github.com/skurlov/identsvc/internal/server/services"
)

const (
	minPasswordLength = 8
	otpLength         = 6
)

// AuthAPI is the slice of the service layer the transport needs.
type AuthAPI interface {
	Register(ctx context.Context, email, password, fullName string) (*models.User, error)
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	CurrentUser(ctx context.Context, accessToken string) (*models.User, error)
	Logout(ctx context.Context, userID string) error
}

type Handler struct {
	svc    AuthAPI
	logger logging.Logger
}

func NewHandler(svc AuthAPI, logger logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Routes returns a mux with every authentication endpoint registered.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/register", h.register)
	mux.HandleFunc("POST /api/v1/auth/verify-email", h.verifyEmail)
	mux.HandleFunc("POST /api/v1/auth/resend-verification", h.resendVerification)
	mux.HandleFunc("POST /api/v1/auth/login", h.login)
	mux.HandleFunc("POST /api/v1/auth/refresh-token", h.refreshToken)
	mux.HandleFunc("POST /api/v1/auth/forgot-password", h.forgotPassword)
	mux.HandleFunc("POST /api/v1/auth/reset-password", h.resetPassword)
	mux.HandleFunc("GET /api/v1/auth/me", h.me)
	mux.HandleFunc("POST /api/v1/auth/logout", h.logout)
	return mux
}

// --- request shapes ---

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyEmailRequest struct {
	Email   string `json:"email"`
	OTPCode string `json:"otp_code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTPCode     string `json:"otp_code"`
	NewPassword string `json:"new_password"`
}

type userResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	IsActive     bool   `json:"is_active"`
	IsVerified   bool   `json:"is_verified"`
	AuthProvider string `json:"auth_provider"`
	CreatedAt    string `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Email:        u.Email,
		FullName:     u.FullName,
		IsActive:     u.IsActive,
		IsVerified:   u.IsVerified,
		AuthProvider: string(u.AuthProvider),
		CreatedAt:    u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// --- handlers ---

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Email == "" || len(req.Password) < minPasswordLength {
		h.badRequest(w, r, "Email and a password of at least 8 characters are required")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSuccess(w, r, http.StatusCreated,
		"User registered successfully, verification email sent",
		"Registration successful! Check your email.",
		map[string]any{
			"user_id": user.ID,
			"email":   user.Email,
			"message": "Registration successful. Please check your email for verification code.",
		})
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Email == "" || len(req.OTPCode) != otpLength {
		h.badRequest(w, r, "Email and a 6-digit code are required")
		return
	}

	if err := h.svc.VerifyEmail(r.Context(), req.Email, req.OTPCode); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSuccess(w, r, http.StatusOK,
		"Email verification completed",
		"Email verified successfully!",
		nil)
}

func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		h.badRequest(w, r, "Email is required")
		return
	}

	if err := h.svc.ResendVerification(r.Context(), req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSuccess(w, r, http.StatusOK,
		"Verification OTP resent successfully",
		"Verification code sent!",
		nil)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		h.badRequest(w, r, "Email and password are required")
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSuccess(w, r, http.StatusOK,
		"User authenticated successfully",
		"Login successful!",
		map[string]any{
			"access_token":  res.AccessToken,
			"refresh_token": res.RefreshToken,
			"token_type":    "bearer",
			"user":          toUserResponse(res.User),
		})
}

func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshTokenRequest
	if !h.decode(w, r, &req) {
		return
	}

	accessToken, err := h.svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSuccess(w, r, http.StatusOK,
		"Access token regenerated",
		"Token refreshed successfully",
		map[string]any{
			"access_token": accessToken,
			"token_type":   "bearer",
		})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Email == "" {
		h.badRequest(w, r, "Email is required")
		return
	}

	if err := h.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}

	// identical response whether or not the email is registered
	h.writeSuccess(w, r, http.StatusOK,
		"Password reset OTP sent if email exists",
		"If your email is registered, you'll receive a reset code.",
		map[string]any{
			"message": "If the email exists, a reset code has been sent",
		})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Email == "" || len(req.OTPCode) != otpLength || len(req.NewPassword) < minPasswordLength {
		h.badRequest(w, r, "Email, a 6-digit code, and a password of at least 8 characters are required")
		return
	}

	if err := h.svc.ResetPassword(r.Context(), req.Email, req.OTPCode, req.NewPassword); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSuccess(w, r, http.StatusOK,
		"Password updated and sessions revoked",
		"Password reset successful! Please login with your new password.",
		nil)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	h.writeSuccess(w, r, http.StatusOK,
		"Current user data fetched successfully",
		"User information retrieved",
		toUserResponse(user))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	if err := h.svc.Logout(r.Context(), user.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeSuccess(w, r, http.StatusOK,
		"All refresh tokens revoked",
		"You've been logged out",
		map[string]any{"message": "Logged out successfully"})
}

// --- plumbing ---

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.badRequest(w, r, "Request body is not valid JSON")
		return false
	}
	return true
}

// authenticate resolves the bearer token to a user, writing a 401 response
// on failure.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	token, ok := bearerToken(r)
	if !ok {
		writeJSON(r.Context(), h.logger, w, http.StatusUnauthorized, apiResponse{
			Header: newHeader(http.StatusUnauthorized, "Missing or malformed Authorization header", "Not authenticated"),
		})
		return nil, false
	}

	user, err := h.svc.CurrentUser(r.Context(), token)
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return user, true
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}

func (h *Handler) writeSuccess(w http.ResponseWriter, r *http.Request, status int, developerMessage, customerMessage string, body any) {
	writeJSON(r.Context(), h.logger, w, status, apiResponse{
		Header: newHeader(status, developerMessage, customerMessage),
		Body:   body,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(r.Context(), h.logger, w, http.StatusBadRequest, apiResponse{
		Header: newHeader(http.StatusBadRequest, message, message),
	})
}

// writeError maps a domain error to an HTTP status and a safe message.
// Anything unmapped is an infrastructure failure: it is logged in full and
// surfaced as a generic 500 with no detail.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusForError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(r.Context(), h.logger, w, status, apiResponse{
		Header: newHeader(status, message, message),
	})
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		return http.StatusConflict, "Email already registered"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Incorrect email or password"
	case errors.Is(err, common.ErrNotVerified):
		return http.StatusForbidden, "Email not verified. Please verify your email first."
	case errors.Is(err, common.ErrInactive):
		return http.StatusForbidden, "Account is deactivated"
	case errors.Is(err, common.ErrInvalidOrExpiredCode):
		return http.StatusBadRequest, "Invalid or expired verification code"
	case errors.Is(err, common.ErrAlreadyVerified):
		return http.StatusConflict, "Email is already verified"
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid authentication token"
	case errors.Is(err, common.ErrTokenExpiredOrRevoked):
		return http.StatusUnauthorized, "Session expired or revoked. Please login again."
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
