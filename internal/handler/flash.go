package handler

import "net/http"

// FlashHandler exposes the queued flash messages so pages can render them
// after a redirect. Fetching consumes: each message is returned exactly once
// and the session cookie is rewritten without it.
type FlashHandler struct {
	sessions *Sessions
}

func NewFlashHandler(sessions *Sessions) *FlashHandler {
	return &FlashHandler{sessions: sessions}
}

func (h *FlashHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]string{
		"messages": h.sessions.PopFlashes(w, r),
	})
}
