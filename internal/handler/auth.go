package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/auth"
)

// ResetMailer delivers the password-reset code.
type ResetMailer interface {
	SendResetCode(to, code string) error
}

type AuthHandler struct {
	svc      auth.Service
	sessions *Sessions
	mailer   ResetMailer
}

func NewAuthHandler(svc auth.Service, sessions *Sessions, mailer ResetMailer) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions, mailer: mailer}
}

type setupForm struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
}

// Setup creates the bootstrap admin account. Blocked once any user exists.
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	form := setupForm{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		redirectWithFlash(h.sessions, w, r, "/setup", "Preencha usuário, e-mail e senha (mínimo 6 caracteres).")
		return
	}

	if _, err := h.svc.Bootstrap(r.Context(), form.Username, form.Email, form.Password); err != nil {
		if errors.Is(err, auth.ErrAlreadyConfigured) {
			redirectWithFlash(h.sessions, w, r, "/login", "O sistema já está configurado.")
			return
		}
		log.Error().Err(err).Msg("handler: bootstrap failed")
		redirectWithFlash(h.sessions, w, r, "/setup", "Não foi possível configurar o usuário mestre.")
		return
	}

	redirectWithFlash(h.sessions, w, r, "/login", "Usuário Mestre configurado! O sistema está pronto.")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.svc.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			redirectWithFlash(h.sessions, w, r, "/login", "Dados incorretos.")
			return
		}
		log.Error().Err(err).Msg("handler: login failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.sessions.SignIn(w, r, user.ID)
	redirectWithFlash(h.sessions, w, r, "/admin/orders", "Bem-vindo ao sistema!")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.SignOut(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ForgotPassword starts the reset flow: a 6-digit code is generated, mailed
// to the address, and held in the session. A failed send stores nothing, so
// the flow does not advance.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	if email == "" {
		redirectWithFlash(h.sessions, w, r, "/password/forgot", "Informe o e-mail cadastrado.")
		return
	}

	code, err := h.svc.RequestResetCode(r.Context(), email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			redirectWithFlash(h.sessions, w, r, "/password/forgot", "E-mail não encontrado.")
			return
		}
		log.Error().Err(err).Msg("handler: failed to create reset code")
		redirectWithFlash(h.sessions, w, r, "/password/forgot", "Não foi possível iniciar a recuperação de senha.")
		return
	}

	if err := h.mailer.SendResetCode(email, code); err != nil {
		log.Error().Err(err).Msg("handler: failed to send reset code")
		redirectWithFlash(h.sessions, w, r, "/password/forgot", "Erro no envio do e-mail. Tente novamente.")
		return
	}

	h.sessions.SetResetState(w, r, code, email)
	redirectWithFlash(h.sessions, w, r, "/password/validate", fmt.Sprintf("Código enviado para %s!", email))
}

// ValidateCode checks the submitted code against the session. Without a
// pending code the browser is sent back to the request step.
func (h *AuthHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	expected, ok := h.sessions.ResetCode(r)
	if !ok {
		http.Redirect(w, r, "/password/forgot", http.StatusSeeOther)
		return
	}

	if r.PostFormValue("code") != expected {
		redirectWithFlash(h.sessions, w, r, "/password/validate", "Código inválido.")
		return
	}

	h.sessions.MarkResetVerified(w, r)
	http.Redirect(w, r, "/password/new", http.StatusSeeOther)
}

// NewPassword finishes the reset flow and clears the pending state, making
// the code single-use. The session must have passed code validation first:
// holding a pending code without having entered it is not enough.
func (h *AuthHandler) NewPassword(w http.ResponseWriter, r *http.Request) {
	email, ok := h.sessions.ResetEmail(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if !h.sessions.ResetVerified(r) {
		http.Redirect(w, r, "/password/validate", http.StatusSeeOther)
		return
	}

	password := r.PostFormValue("password")
	if len(password) < 6 {
		redirectWithFlash(h.sessions, w, r, "/password/new", "A nova senha deve ter pelo menos 6 caracteres.")
		return
	}

	if err := h.svc.ChangePassword(r.Context(), email, password); err != nil {
		log.Error().Err(err).Msg("handler: failed to change password")
		redirectWithFlash(h.sessions, w, r, "/password/new", "Não foi possível alterar a senha.")
		return
	}

	h.sessions.ClearResetState(w, r)
	redirectWithFlash(h.sessions, w, r, "/login", "Senha alterada com sucesso!")
}
