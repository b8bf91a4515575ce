package http

import (
	"net/http"

	"github.com/MKhiriev/orbit-sync/internal/utils"
	"github.com/MKhiriev/orbit-sync/models"
)

// ping is the discovery probe a remote device fires at candidate hosts on
// the LAN. No authentication: it only confirms that a sync host is listening
// at this address.
func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, models.PingResponse{
		Status:  "ok",
		Service: "orbit-sync",
		Version: h.version,
	}, http.StatusOK)
}
