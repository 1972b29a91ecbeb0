// Itemsim - Item Similarity and Hybrid Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/itemsim/internal/logging"
	"github.com/tomtom215/itemsim/internal/models"
	"github.com/tomtom215/itemsim/internal/similarity"
)

// TriggerSimilarityRun handles POST /admin/similarity/run. The run happens
// in the background; 202 means it was queued, 409 that one is already
// running or queued.
func (h *Handler) TriggerSimilarityRun(w http.ResponseWriter, r *http.Request) {
	if h.batch == nil {
		respondError(w, r, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Similarity batch is disabled", nil)
		return
	}

	err := h.batch.Trigger()
	switch {
	case errors.Is(err, similarity.ErrBatchInProgress):
		respondError(w, r, http.StatusConflict, "CONFLICT", "A similarity batch is already running", nil)
		return
	case err != nil:
		respondError(w, r, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to trigger similarity batch", err)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("Similarity batch triggered via API")
	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   "success",
		Data:     BatchTriggerResponse{Accepted: true, LastRun: h.batch.LastRun()},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
