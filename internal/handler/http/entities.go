// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/avetra/bizsync/internal/app"
	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/utils"
	"github.com/avetra/bizsync/models"
)

func (h *Handler) getEntityTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	types, err := h.services.Instance.Types(ctx)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntityTypes").Msg("error listing entity types")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.EntityTypesResponse{Types: types, Length: len(types)}, http.StatusOK)
}

func (h *Handler) getEntities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	entityType := r.URL.Query().Get("type")
	if entityType == "" {
		http.Error(w, app.MsgTypeParamRequired, http.StatusBadRequest)
		return
	}

	records, err := h.services.Instance.Records(ctx, entityType)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntities").Str("type", entityType).Msg("error listing records")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.RecordsResponse{Records: records, Length: len(records)}, http.StatusOK)
}

func (h *Handler) getEntityChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	entityType := r.URL.Query().Get("type")
	if entityType == "" {
		http.Error(w, app.MsgTypeParamRequired, http.StatusBadRequest)
		return
	}
	since, err := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
	if err != nil {
		http.Error(w, app.MsgSinceParamNotInteger, http.StatusBadRequest)
		return
	}

	records, err := h.services.Instance.ChangesSince(ctx, entityType, since)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntityChanges").Str("type", entityType).Msg("error listing changes")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.RecordsResponse{Records: records, Length: len(records)}, http.StatusOK)
}

func (h *Handler) getEntityExists(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	entityType := r.URL.Query().Get("type")
	key := r.URL.Query().Get("key")
	if entityType == "" || key == "" {
		http.Error(w, app.MsgTypeKeyParamsRequired, http.StatusBadRequest)
		return
	}

	exists, err := h.services.Instance.Exists(ctx, entityType, key)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getEntityExists").Str("type", entityType).Str("key", key).Msg("error probing record")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.ExistsResponse{Exists: exists}, http.StatusOK)
}

// applyEntityBatch applies one atomic incremental batch. A record whose
// parent is missing on this side answers 409 so the sending driver can tell
// a dependency-order defect from a transport failure.
func (h *Handler) applyEntityBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.RecordBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.applyEntityBatch").Msg(app.MsgInvalidJSON)
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}
	if len(req.Envelopes) == 0 {
		http.Error(w, app.MsgEmptyBatch, http.StatusBadRequest)
		return
	}

	records := make([]models.EntityRecord, 0, len(req.Envelopes))
	var cursor int64
	for _, env := range req.Envelopes {
		records = append(records, env.Record)
		if env.Seq > cursor {
			cursor = env.Seq
		}
	}

	applied, err := h.services.Instance.ApplyBatch(ctx, records)
	if err != nil {
		log.Err(err).Str("func", "*Handler.applyEntityBatch").Int("batch", len(records)).Msg("error applying batch")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.RecordBatchResponse{Applied: applied, Cursor: cursor}, http.StatusOK)
}

func (h *Handler) replaceEntities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ReplaceRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.replaceEntities").Msg(app.MsgInvalidJSON)
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	applied, err := h.services.Instance.ReplaceAll(ctx, req.Records)
	if err != nil {
		log.Err(err).Str("func", "*Handler.replaceEntities").Int("records", len(req.Records)).Msg("error replacing records")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, models.AppliedResponse{Applied: applied}, http.StatusOK)
}
