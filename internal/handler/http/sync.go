// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avetra/bizsync/internal/app"
	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/utils"
	"github.com/avetra/bizsync/models"
)

func (h *Handler) startSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.StartSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.startSync").Msg(app.MsgInvalidJSON)
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	resp, err := h.services.Engine.StartSync(ctx, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.startSync").Msg("error starting sync session")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, resp, http.StatusAccepted)
}

func (h *Handler) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sessionID := chi.URLParam(r, "sessionID")
	session, err := h.services.Engine.GetStatus(ctx, sessionID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncStatus").Str("session", sessionID).Msg("error loading session")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, session, http.StatusOK)
}

func (h *Handler) cancelSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	sessionID := chi.URLParam(r, "sessionID")
	resp, err := h.services.Engine.Cancel(ctx, sessionID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.cancelSync").Str("session", sessionID).Msg("error cancelling session")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	// A refused cancellation is a valid answer, not an error.
	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.validate").Msg(app.MsgInvalidJSON)
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	resp, err := h.services.Engine.Validate(ctx, req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.validate").Msg("error validating")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	reportID := chi.URLParam(r, "reportID")
	report, err := h.services.Engine.GetReport(ctx, reportID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getReport").Str("report", reportID).Msg("error loading report")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}
