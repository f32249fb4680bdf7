package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/health"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/realtime"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/repository"
)

// FilesHandler serves uploaded attachments. A blob lives on exactly one
// backend, so both are consulted: the realtime store first when healthy,
// then the relational fallback.
type FilesHandler struct {
	store      realtime.Store
	attachRepo repository.AttachmentRepository
	health     *health.Health
}

func NewFilesHandler(store realtime.Store, attachRepo repository.AttachmentRepository, h *health.Health) *FilesHandler {
	return &FilesHandler{store: store, attachRepo: attachRepo, health: h}
}

func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/*", h.Serve)
	return r
}

func (h *FilesHandler) Serve(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		writeError(w, apperrors.NotFound("File"))
		return
	}

	if h.health.Available() {
		data, contentType, err := h.store.GetBlob(r.Context(), key)
		if err != nil {
			h.health.MarkDown()
			log.Warn().Err(err).Str("key", key).
				Msg("realtime blob read failed, falling back to database")
		} else if data != nil {
			serveBlob(w, contentType, data)
			return
		}
	}

	blob, err := h.attachRepo.FindByKey(r.Context(), key)
	if err != nil {
		writeError(w, apperrors.Database(err))
		return
	}
	if blob == nil {
		writeError(w, apperrors.NotFound("File"))
		return
	}

	serveBlob(w, blob.ContentType, blob.Data)
}

func serveBlob(w http.ResponseWriter, contentType string, data []byte) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.Write(data)
}
