package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/auth"
)

type mockAuthService struct {
	needsBootstrapFunc   func(ctx context.Context) (bool, error)
	bootstrapFunc        func(ctx context.Context, username, email, password string) (*auth.User, error)
	loginFunc            func(ctx context.Context, username, password string) (*auth.User, error)
	requestResetCodeFunc func(ctx context.Context, email string) (string, error)
	changePasswordFunc   func(ctx context.Context, email, newPassword string) error
}

func (m *mockAuthService) NeedsBootstrap(ctx context.Context) (bool, error) {
	if m.needsBootstrapFunc == nil {
		return false, nil
	}
	return m.needsBootstrapFunc(ctx)
}

func (m *mockAuthService) Bootstrap(ctx context.Context, username, email, password string) (*auth.User, error) {
	if m.bootstrapFunc == nil {
		return &auth.User{ID: 1, Username: username, Email: email}, nil
	}
	return m.bootstrapFunc(ctx, username, email, password)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*auth.User, error) {
	if m.loginFunc == nil {
		return nil, auth.ErrInvalidCredentials
	}
	return m.loginFunc(ctx, username, password)
}

func (m *mockAuthService) RequestResetCode(ctx context.Context, email string) (string, error) {
	if m.requestResetCodeFunc == nil {
		return "123456", nil
	}
	return m.requestResetCodeFunc(ctx, email)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, email, newPassword string) error {
	if m.changePasswordFunc == nil {
		return nil
	}
	return m.changePasswordFunc(ctx, email, newPassword)
}

type mockMailer struct {
	sendErr error
	sentTo  string
	code    string
}

func (m *mockMailer) SendResetCode(to, code string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sentTo = to
	m.code = code
	return nil
}

func postForm(handlerFunc http.HandlerFunc, target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	handlerFunc(rec, req)
	return rec
}

func TestValidateCodeWithoutPendingCodeRedirectsToRequestStep(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, NewSessions("test-secret"), &mockMailer{})

	rec := postForm(h.ValidateCode, "/password/validate", url.Values{"code": {"123456"}}, nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/password/forgot", rec.Header().Get("Location"))
}

func TestPasswordResetFlow(t *testing.T) {
	sessions := NewSessions("test-secret")
	mail := &mockMailer{}
	h := NewAuthHandler(&mockAuthService{}, sessions, mail)

	// request a code
	rec := postForm(h.ForgotPassword, "/password/forgot", url.Values{"email": {"vanda@example.com"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/password/validate", rec.Header().Get("Location"))
	assert.Equal(t, "vanda@example.com", mail.sentTo)
	assert.Equal(t, "123456", mail.code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// wrong code stays on the validation step
	rec = postForm(h.ValidateCode, "/password/validate", url.Values{"code": {"000000"}}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/password/validate", rec.Header().Get("Location"))

	// right code advances and marks the session as validated
	rec = postForm(h.ValidateCode, "/password/validate", url.Values{"code": {"123456"}}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/password/new", rec.Header().Get("Location"))
	cookies = rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	// change the password; the pending state is cleared
	changed := false
	h.svc.(*mockAuthService).changePasswordFunc = func(ctx context.Context, email, newPassword string) error {
		changed = true
		assert.Equal(t, "vanda@example.com", email)
		assert.Equal(t, "nova-senha", newPassword)
		return nil
	}
	rec = postForm(h.NewPassword, "/password/new", url.Values{"password": {"nova-senha"}}, cookies)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.True(t, changed)

	// the cleared session can no longer validate codes
	cookies = rec.Result().Cookies()
	rec = postForm(h.ValidateCode, "/password/validate", url.Values{"code": {"123456"}}, cookies)
	assert.Equal(t, "/password/forgot", rec.Header().Get("Location"))
}

func TestForgotPasswordMailFailureDoesNotAdvanceFlow(t *testing.T) {
	sessions := NewSessions("test-secret")
	h := NewAuthHandler(&mockAuthService{}, sessions, &mockMailer{sendErr: errors.New("smtp down")})

	rec := postForm(h.ForgotPassword, "/password/forgot", url.Values{"email": {"vanda@example.com"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/password/forgot", rec.Header().Get("Location"))

	// no reset state was stored, so validation bounces back
	rec = postForm(h.ValidateCode, "/password/validate", url.Values{"code": {"123456"}}, rec.Result().Cookies())
	assert.Equal(t, "/password/forgot", rec.Header().Get("Location"))
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc := &mockAuthService{
		requestResetCodeFunc: func(ctx context.Context, email string) (string, error) {
			return "", auth.ErrUserNotFound
		},
	}
	h := NewAuthHandler(svc, NewSessions("test-secret"), &mockMailer{})

	rec := postForm(h.ForgotPassword, "/password/forgot", url.Values{"email": {"x@y.com"}}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/password/forgot", rec.Header().Get("Location"))
}

func TestNewPasswordRequiresValidatedCode(t *testing.T) {
	sessions := NewSessions("test-secret")
	svc := &mockAuthService{
		changePasswordFunc: func(ctx context.Context, email, newPassword string) error {
			t.Fatal("password change must not run before the code is validated")
			return nil
		},
	}
	h := NewAuthHandler(svc, sessions, &mockMailer{})

	rec := postForm(h.ForgotPassword, "/password/forgot", url.Values{"email": {"vanda@example.com"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// jumping straight to the new-password step with a pending but
	// unvalidated code bounces back to validation
	rec = postForm(h.NewPassword, "/password/new", url.Values{"password": {"nova-senha"}}, rec.Result().Cookies())
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/password/validate", rec.Header().Get("Location"))
}

func TestNewPasswordWithoutPendingEmailRedirectsToLogin(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, NewSessions("test-secret"), &mockMailer{})

	rec := postForm(h.NewPassword, "/password/new", url.Values{"password": {"nova-senha"}}, nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLogin(t *testing.T) {
	sessions := NewSessions("test-secret")
	svc := &mockAuthService{
		loginFunc: func(ctx context.Context, username, password string) (*auth.User, error) {
			if username == "vanda" && password == "segredo1" {
				return &auth.User{ID: 1, Username: "vanda"}, nil
			}
			return nil, auth.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(svc, sessions, &mockMailer{})

	t.Run("success_signs_in", func(t *testing.T) {
		rec := postForm(h.Login, "/login", url.Values{"username": {"vanda"}, "password": {"segredo1"}}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/orders", rec.Header().Get("Location"))

		req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
		_, ok := sessions.CurrentUserID(req)
		assert.True(t, ok)
	})

	t.Run("failure_redirects_to_login", func(t *testing.T) {
		rec := postForm(h.Login, "/login", url.Values{"username": {"vanda"}, "password": {"errada"}}, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func TestRequireAdminRedirectsAnonymous(t *testing.T) {
	sessions := NewSessions("test-secret")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guarded := RequireAdmin(sessions)(next)

	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
