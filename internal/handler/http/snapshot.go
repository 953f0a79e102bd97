package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/utils"
	"github.com/avetra/bizsync/models"
)

func (h *Handler) prepareSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	size, err := h.services.Instance.PrepareSnapshot(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.prepareSnapshot").Msg("error preparing snapshot")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.SnapshotInfoResponse{BytesTotal: size}, http.StatusOK)
}

// downloadSnapshot streams the prepared spool as-is. The snapshot framing
// carries its own checksum, so no transport-level encoding is added.
func (h *Handler) downloadSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	rc, size, err := h.services.Instance.OpenSnapshot(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.downloadSnapshot").Msg("error opening prepared snapshot")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	if _, err = io.Copy(w, rc); err != nil {
		log.Err(err).Str("func", "*Handler.downloadSnapshot").Msg("snapshot stream interrupted")
	}
}

func (h *Handler) uploadSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	size, err := h.services.Instance.StageSnapshot(ctx, r.Body)
	if err != nil {
		log.Err(err).Str("func", "*Handler.uploadSnapshot").Msg("error staging snapshot")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.SnapshotInfoResponse{BytesTotal: size}, http.StatusOK)
}

func (h *Handler) restoreSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	applied, err := h.services.Instance.RestoreStaged(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.restoreSnapshot").Msg("error restoring staged snapshot")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.AppliedResponse{Applied: applied}, http.StatusOK)
}
