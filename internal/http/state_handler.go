package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MaxStateBytes bounds the size of a state document.
const MaxStateBytes = 4 << 20

type stateStore interface {
	SaveState(ctx context.Context, key string, data any) error
	LoadState(ctx context.Context, key string) (json.RawMessage, bool)
}

type StateHandler struct {
	store     stateStore
	responder responder
	logger    *slog.Logger
}

func NewStateHandler(store stateStore, logger *slog.Logger) *StateHandler {
	base := defaultLogger(logger)
	return &StateHandler{store: store, responder: newResponder(base), logger: base}
}

// Put stores the JSON body under the key in the path.
func (h *StateHandler) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxStateBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.responder.writeError(ctx, w, http.StatusRequestEntityTooLarge, errBodyTooLarge)
			return
		}
		h.responder.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}
	if len(body) == 0 {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errEmptyBody)
		return
	}
	if !json.Valid(body) {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if err := h.store.SaveState(ctx, key, json.RawMessage(body)); err != nil {
		h.responder.writeError(ctx, w, http.StatusInternalServerError, err)
		return
	}
	handlerLogger(ctx, h.logger, "StateHandler", "Put", "key", key).DebugContext(ctx, "state stored", "size", len(body))
	w.WriteHeader(http.StatusNoContent)
}

// Get returns the JSON stored under the key in the path.
func (h *StateHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")

	raw, ok := h.store.LoadState(ctx, key)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusNotFound, errStateNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
