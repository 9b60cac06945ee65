package handler

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const (
	sessionName = "atelie_session"

	keyUserID        = "user_id"
	keyResetCode     = "reset_code"
	keyResetEmail    = "reset_email"
	keyResetVerified = "reset_verified"
)

// Sessions wraps the signed-cookie store that carries the admin identity,
// flash messages and the pending password-reset state.
type Sessions struct {
	store *sessions.CookieStore
}

func NewSessions(secret string) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

func (s *Sessions) get(r *http.Request) *sessions.Session {
	// Get never fails for cookie stores; a bad cookie yields a fresh session.
	session, _ := s.store.Get(r, sessionName)
	return session
}

func (s *Sessions) save(w http.ResponseWriter, r *http.Request, session *sessions.Session) {
	if err := session.Save(r, w); err != nil {
		log.Error().Err(err).Msg("handler: failed to save session")
	}
}

func (s *Sessions) SignIn(w http.ResponseWriter, r *http.Request, userID int64) {
	session := s.get(r)
	session.Values[keyUserID] = userID
	s.save(w, r, session)
}

func (s *Sessions) SignOut(w http.ResponseWriter, r *http.Request) {
	session := s.get(r)
	session.Options.MaxAge = -1
	s.save(w, r, session)
}

func (s *Sessions) CurrentUserID(r *http.Request) (int64, bool) {
	id, ok := s.get(r).Values[keyUserID].(int64)
	return id, ok
}

func (s *Sessions) AddFlash(w http.ResponseWriter, r *http.Request, message string) {
	session := s.get(r)
	session.AddFlash(message)
	s.save(w, r, session)
}

// PopFlashes returns and clears any pending flash messages.
func (s *Sessions) PopFlashes(w http.ResponseWriter, r *http.Request) []string {
	session := s.get(r)
	raw := session.Flashes()
	if len(raw) > 0 {
		s.save(w, r, session)
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			messages = append(messages, msg)
		}
	}
	return messages
}

func (s *Sessions) SetResetState(w http.ResponseWriter, r *http.Request, code, email string) {
	session := s.get(r)
	session.Values[keyResetCode] = code
	session.Values[keyResetEmail] = email
	delete(session.Values, keyResetVerified)
	s.save(w, r, session)
}

func (s *Sessions) ResetCode(r *http.Request) (string, bool) {
	code, ok := s.get(r).Values[keyResetCode].(string)
	return code, ok
}

func (s *Sessions) ResetEmail(r *http.Request) (string, bool) {
	email, ok := s.get(r).Values[keyResetEmail].(string)
	return email, ok
}

// MarkResetVerified records that the session owner entered the right code,
// unlocking the new-password step.
func (s *Sessions) MarkResetVerified(w http.ResponseWriter, r *http.Request) {
	session := s.get(r)
	session.Values[keyResetVerified] = true
	s.save(w, r, session)
}

func (s *Sessions) ResetVerified(r *http.Request) bool {
	verified, _ := s.get(r).Values[keyResetVerified].(bool)
	return verified
}

// ClearResetState removes the pending code and email; after this the reset
// flow must be started over.
func (s *Sessions) ClearResetState(w http.ResponseWriter, r *http.Request) {
	session := s.get(r)
	delete(session.Values, keyResetCode)
	delete(session.Values, keyResetEmail)
	delete(session.Values, keyResetVerified)
	s.save(w, r, session)
}
