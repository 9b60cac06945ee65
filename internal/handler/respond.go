package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("handler: failed to encode response")
	}
}

// redirectWithFlash implements the flash-and-redirect pattern used by the
// browser-form flows: the message is shown on the next page load.
func redirectWithFlash(s *Sessions, w http.ResponseWriter, r *http.Request, target, message string) {
	if message != "" {
		s.AddFlash(w, r, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

func formFloat(r *http.Request, name string) (float64, error) {
	raw := r.PostFormValue(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}
