package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/utils"
	"github.com/MKhiriev/orbit-sync/models"
)

// pair exchanges the on-screen PIN for this session's bearer token.
// Failures come back as a JSON PairResponse with Success=false so the
// remote device can show the reason verbatim.
func (h *Handler) pair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.PairRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		log.Err(err).Msg("malformed pair request")
		utils.WriteJSON(w, models.PairResponse{Message: "malformed request body"}, http.StatusBadRequest)
		return
	}
	if request.Pin == "" || request.DeviceName == "" {
		log.Warn().Msg("pair request missing pin or device name")
		utils.WriteJSON(w, models.PairResponse{Message: "pin and deviceName are required"}, http.StatusBadRequest)
		return
	}

	response, err := h.services.Session.Authenticate(ctx, request.Pin, request.DeviceName)
	if err != nil {
		log.Err(err).Str("device", request.DeviceName).Msg("pairing failed")
		utils.WriteJSON(w, models.PairResponse{Message: err.Error()}, statusFromError(err))
		return
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
