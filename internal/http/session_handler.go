package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/brandportal/growthhub/internal/assetstore"
)

type sessionStore interface {
	SetLastSession(ctx context.Context, email, companyID string)
	GetLastSession(ctx context.Context) (assetstore.Session, bool)
	ClearLastSession(ctx context.Context)
}

type SessionHandler struct {
	store     sessionStore
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(store sessionStore, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{store: store, responder: newResponder(base), logger: base}
}

type sessionRequest struct {
	Email     string `json:"email"`
	CompanyID string `json:"companyId"`
}

// Create records the last signed-in session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		h.responder.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			ErrorCode: "VALIDATION_FAILED",
			Message:   "the request contains invalid fields",
			Errors:    map[string]string{"email": "email is invalid"},
		})
		return
	}

	h.store.SetLastSession(ctx, addr.Address, strings.TrimSpace(req.CompanyID))
	handlerLogger(ctx, h.logger, "SessionHandler", "Create").InfoContext(ctx, "session recorded")

	session, ok := h.store.GetLastSession(ctx)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusCreated, session)
}

// Get returns the last recorded session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, ok := h.store.GetLastSession(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusNotFound, errNoSession)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, session)
}

// Delete forgets the recorded session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.store.ClearLastSession(ctx)
	handlerLogger(ctx, h.logger, "SessionHandler", "Delete").InfoContext(ctx, "session cleared")
	w.WriteHeader(http.StatusNoContent)
}
