package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/utils"
	"github.com/MKhiriev/orbit-sync/models"
)

// sync accepts the paired device's one transaction batch. The response tells
// the device whether everything merged right away or the batch is parked
// behind operator approval.
func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token, found := utils.GetSyncTokenFromContext(ctx)
	if !found {
		log.Error().Msg("no sync token in request context")
		utils.WriteJSON(w, models.SyncDataResponse{Message: "unauthorized"}, http.StatusUnauthorized)
		return
	}

	var payload models.SyncDataPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Err(err).Msg("malformed sync payload")
		utils.WriteJSON(w, models.SyncDataResponse{Message: "malformed request body"}, http.StatusBadRequest)
		return
	}

	response, err := h.services.Ingest.Ingest(ctx, token, payload)
	if err != nil {
		log.Err(err).Int("transactions", len(payload.Transactions)).Msg("sync ingest failed")
		utils.WriteJSON(w, models.SyncDataResponse{Message: err.Error()}, statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
