package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/brandportal/growthhub/internal/assetstore"
)

type adminStore interface {
	HardReset(ctx context.Context)
	Mode() assetstore.Mode
}

type AdminHandler struct {
	store     adminStore
	responder responder
	logger    *slog.Logger
}

func NewAdminHandler(store adminStore, logger *slog.Logger) *AdminHandler {
	base := defaultLogger(logger)
	return &AdminHandler{store: store, responder: newResponder(base), logger: base}
}

// Reset wipes the store in every tier.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.store.HardReset(ctx)
	handlerLogger(ctx, h.logger, "AdminHandler", "Reset").WarnContext(ctx, "store reset", "mode", h.store.Mode().String())
	w.WriteHeader(http.StatusNoContent)
}

type healthResponse struct {
	Status   string `json:"status"`
	Mode     string `json:"mode"`
	Volatile bool   `json:"volatile"`
}

// Health reports liveness and whether writes are currently persisted.
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	mode := h.store.Mode()
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{
		Status:   "ok",
		Mode:     mode.String(),
		Volatile: mode == assetstore.ModeVolatile,
	})
}
