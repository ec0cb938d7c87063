package handler

import (
	"context"
	"net/http"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
	"github.com/minhaz23-oss/fbLogin/internal/transport/http/middleware"
)

type userGetter interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

// SessionHandler handles the session-authenticated surface.
type SessionHandler struct {
	users         userGetter
	secureCookies bool
}

func NewSessionHandler(users userGetter, secureCookies bool) *SessionHandler {
	return &SessionHandler{users: users, secureCookies: secureCookies}
}

func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := h.users.Get(r.Context(), claims.UID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{Success: true, User: u})
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.SessionFromContext(r.Context()); !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	clearSessionCookie(w, h.secureCookies)
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, Message: "logged out"})
}
