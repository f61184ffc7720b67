package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/brandportal/growthhub/internal/assetstore"
	"github.com/brandportal/growthhub/internal/persistence"
)

// AssetNameHeader carries the original file name of an asset.
const AssetNameHeader = "X-Asset-Name"

// MaxAssetBytes bounds the size of an uploaded asset.
const MaxAssetBytes = 32 << 20

type assetStore interface {
	SaveAsset(ctx context.Context, id string, blob assetstore.Blob)
	GetAsset(ctx context.Context, id string) (persistence.Asset, bool)
}

type AssetHandler struct {
	store     assetStore
	responder responder
	logger    *slog.Logger
}

func NewAssetHandler(store assetStore, logger *slog.Logger) *AssetHandler {
	base := defaultLogger(logger)
	return &AssetHandler{store: store, responder: newResponder(base), logger: base}
}

func (h *AssetHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "AssetHandler", operation, attrs...)
}

// Put stores the request body under the id in the path.
func (h *AssetHandler) Put(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	logger := h.log(ctx, "Put", "asset_id", id)

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxAssetBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.responder.writeError(ctx, w, http.StatusRequestEntityTooLarge, errBodyTooLarge)
			return
		}
		h.responder.writeError(ctx, w, http.StatusBadRequest, err)
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	name := strings.TrimSpace(r.Header.Get(AssetNameHeader))
	if name == "" {
		name = id
	}

	h.store.SaveAsset(ctx, id, assetstore.Blob{Name: name, MimeType: mimeType, Data: data})
	digest := assetstore.Digest(data)

	logger.InfoContext(ctx, "asset stored", "size", len(data), "mime_type", mimeType)
	w.Header().Set("ETag", etag(digest))
	h.responder.writeJSON(ctx, w, http.StatusCreated, assetDTO{
		ID:       id,
		Name:     name,
		MimeType: mimeType,
		Size:     len(data),
		Digest:   digest,
	})
}

// Get serves the stored bytes with their MIME type and file name.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	asset, ok := h.store.GetAsset(ctx, id)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusNotFound, errAssetNotFound)
		return
	}

	header := w.Header()
	if asset.MimeType != "" {
		header.Set("Content-Type", asset.MimeType)
	}
	header.Set(AssetNameHeader, asset.Name)
	if asset.Digest != "" {
		header.Set("ETag", etag(asset.Digest))
	}
	http.ServeContent(w, r, asset.Name, asset.StoredAt, bytes.NewReader(asset.Data))
}

func etag(digest string) string {
	return `"` + digest + `"`
}

type assetDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Size     int    `json:"size"`
	Digest   string `json:"digest"`
}
