package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skurlov/identsvc/internal/common"
	"github.com/skurlov/identsvc/internal/logging"
	"github.com/skurlov/identsvc/internal/server/models"
	"github.com/skurlov/identsvc/internal/server/services"
)

// --- helpers ---

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...any)  {}
func (nopLogger) Warn(context.Context, string, ...any)  {}
func (nopLogger) Error(context.Context, string, ...any) {}
func (l nopLogger) With(...any) logging.Logger          { return l }

type fakeAuth struct {
	registerOut *models.User
	registerErr error

	verifyErr error
	resendErr error

	loginOut *services.LoginResult
	loginErr error

	refreshOut string
	refreshErr error

	forgotErr error
	resetErr  error

	currentOut *models.User
	currentErr error

	logoutErr   error
	loggedOutID string
}

func (f *fakeAuth) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	return f.registerOut, f.registerErr
}
func (f *fakeAuth) VerifyEmail(ctx context.Context, email, code string) error { return f.verifyErr }
func (f *fakeAuth) ResendVerification(ctx context.Context, email string) error {
	return f.resendErr
}
func (f *fakeAuth) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	return f.loginOut, f.loginErr
}
func (f *fakeAuth) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return f.refreshOut, f.refreshErr
}
func (f *fakeAuth) ForgotPassword(ctx context.Context, email string) error { return f.forgotErr }
func (f *fakeAuth) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return f.resetErr
}
func (f *fakeAuth) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	return f.currentOut, f.currentErr
}
func (f *fakeAuth) Logout(ctx context.Context, userID string) error {
	f.loggedOutID = userID
	return f.logoutErr
}

type envelope struct {
	Header struct {
		RequestRefID    string `json:"requestRefId"`
		ResponseCode    int    `json:"responseCode"`
		ResponseMessage string `json:"responseMessage"`
		CustomerMessage string `json:"customerMessage"`
		Timestamp       string `json:"timestamp"`
	} `json:"header"`
	Body map[string]any `json:"body"`
}

func doRequest(t *testing.T, svc AuthAPI, method, path, body string, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	h := NewHandler(svc, nopLogger{})
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not a valid envelope: %v\n%s", err, rec.Body.String())
	}
	return rec, env
}

func testUser() *models.User {
	return &models.User{
		ID: "u1", Email: "a@x.com", FullName: "Alice",
		IsActive: true, IsVerified: true, AuthProvider: models.ProviderLocal,
	}
}

// --- register ---

func TestRegister_Created(t *testing.T) {
	svc := &fakeAuth{registerOut: testUser()}

	rec, env := doRequest(t, svc, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@x.com","password":"pw123456","full_name":"Alice"}`, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.Header.ResponseCode != http.StatusCreated || env.Header.RequestRefID == "" {
		t.Fatalf("bad header: %+v", env.Header)
	}
	if env.Body["user_id"] != "u1" || env.Body["email"] != "a@x.com" {
		t.Fatalf("bad body: %+v", env.Body)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	rec, _ := doRequest(t, &fakeAuth{}, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@x.com","password":"short"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := &fakeAuth{registerErr: common.ErrDuplicateEmail}

	rec, env := doRequest(t, svc, http.MethodPost, "/api/v1/auth/register",
		`{"email":"a@x.com","password":"pw123456"}`, nil)

	if rec.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", rec.Code)
	}
	if env.Header.CustomerMessage != "Email already registered" {
		t.Fatalf("unexpected message: %q", env.Header.CustomerMessage)
	}
}

func TestRegister_BadJSON(t *testing.T) {
	rec, _ := doRequest(t, &fakeAuth{}, http.MethodPost, "/api/v1/auth/register", `{not json`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

// --- verify-email ---

func TestVerifyEmail_InvalidCode(t *testing.T) {
	svc := &fakeAuth{verifyErr: common.ErrInvalidOrExpiredCode}

	rec, _ := doRequest(t, svc, http.MethodPost, "/api/v1/auth/verify-email",
		`{"email":"a@x.com","otp_code":"000000"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestVerifyEmail_OK(t *testing.T) {
	rec, _ := doRequest(t, &fakeAuth{}, http.MethodPost, "/api/v1/auth/verify-email",
		`{"email":"a@x.com","otp_code":"123456"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}

// --- login ---

func TestLogin_OK(t *testing.T) {
	svc := &fakeAuth{loginOut: &services.LoginResult{
		AccessToken: "acc", RefreshToken: "ref", User: testUser(),
	}}

	rec, env := doRequest(t, svc, http.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","password":"pw123456"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if env.Body["access_token"] != "acc" || env.Body["refresh_token"] != "ref" || env.Body["token_type"] != "bearer" {
		t.Fatalf("bad body: %+v", env.Body)
	}
	user, _ := env.Body["user"].(map[string]any)
	if user["id"] != "u1" || user["is_verified"] != true {
		t.Fatalf("bad user in body: %+v", user)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &fakeAuth{loginErr: common.ErrInvalidCredentials}

	rec, _ := doRequest(t, svc, http.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","password":"wrongpass"}`, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestLogin_NotVerified(t *testing.T) {
	svc := &fakeAuth{loginErr: common.ErrNotVerified}

	rec, _ := doRequest(t, svc, http.MethodPost, "/api/v1/auth/login",
		`{"email":"a@x.com","password":"pw123456"}`, nil)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("want 403, got %d", rec.Code)
	}
}

// --- refresh ---

func TestRefreshToken_Revoked(t *testing.T) {
	svc := &fakeAuth{refreshErr: common.ErrTokenExpiredOrRevoked}

	rec, _ := doRequest(t, svc, http.MethodPost, "/api/v1/auth/refresh-token",
		`{"refresh_token":"gone"}`, nil)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestRefreshToken_OK(t *testing.T) {
	svc := &fakeAuth{refreshOut: "newacc"}

	rec, env := doRequest(t, svc, http.MethodPost, "/api/v1/auth/refresh-token",
		`{"refresh_token":"ref"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if env.Body["access_token"] != "newacc" {
		t.Fatalf("bad body: %+v", env.Body)
	}
}

// --- forgot-password ---

func TestForgotPassword_IdenticalResponses(t *testing.T) {
	rec1, env1 := doRequest(t, &fakeAuth{}, http.MethodPost, "/api/v1/auth/forgot-password",
		`{"email":"real@x.com"}`, nil)
	rec2, env2 := doRequest(t, &fakeAuth{}, http.MethodPost, "/api/v1/auth/forgot-password",
		`{"email":"nonexistent@x.com"}`, nil)

	if rec1.Code != http.StatusOK || rec2.Code != http.StatusOK {
		t.Fatalf("want 200/200, got %d/%d", rec1.Code, rec2.Code)
	}
	if env1.Header.CustomerMessage != env2.Header.CustomerMessage ||
		env1.Body["message"] != env2.Body["message"] {
		t.Fatalf("responses must be indistinguishable: %+v vs %+v", env1, env2)
	}
}

// --- reset-password ---

func TestResetPassword_OK(t *testing.T) {
	rec, _ := doRequest(t, &fakeAuth{}, http.MethodPost, "/api/v1/auth/reset-password",
		`{"email":"a@x.com","otp_code":"123456","new_password":"newpw12345"}`, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}

func TestResetPassword_ShortPassword(t *testing.T) {
	rec, _ := doRequest(t, &fakeAuth{}, http.MethodPost, "/api/v1/auth/reset-password",
		`{"email":"a@x.com","otp_code":"123456","new_password":"short"}`, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

// --- me / logout ---

func TestMe_NoAuthHeader(t *testing.T) {
	rec, _ := doRequest(t, &fakeAuth{}, http.MethodGet, "/api/v1/auth/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestMe_OK(t *testing.T) {
	svc := &fakeAuth{currentOut: testUser()}
	header := http.Header{"Authorization": []string{"Bearer sometoken"}}

	rec, env := doRequest(t, svc, http.MethodGet, "/api/v1/auth/me", "", header)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if env.Body["id"] != "u1" || env.Body["auth_provider"] != string(models.ProviderLocal) {
		t.Fatalf("bad body: %+v", env.Body)
	}
}

func TestMe_BadToken(t *testing.T) {
	svc := &fakeAuth{currentErr: common.ErrInvalidToken}
	header := http.Header{"Authorization": []string{"Bearer garbage"}}

	rec, _ := doRequest(t, svc, http.MethodGet, "/api/v1/auth/me", "", header)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestLogout_RevokesForAuthenticatedUser(t *testing.T) {
	svc := &fakeAuth{currentOut: testUser()}
	header := http.Header{"Authorization": []string{"Bearer sometoken"}}

	rec, _ := doRequest(t, svc, http.MethodPost, "/api/v1/auth/logout", "", header)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if svc.loggedOutID != "u1" {
		t.Fatalf("logout not routed to the token's user: %q", svc.loggedOutID)
	}
}
