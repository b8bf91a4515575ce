package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/orbit-sync/internal/service"
	"github.com/MKhiriev/orbit-sync/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrNoActiveSession: http.StatusUnauthorized,
	service.ErrInvalidPin:      http.StatusUnauthorized,
	service.ErrSessionExpired:  http.StatusUnauthorized,
	service.ErrUnauthorized:    http.StatusUnauthorized,
	service.ErrAlreadyPaired:   http.StatusConflict,

	service.ErrAlreadyIngested: http.StatusConflict,
	service.ErrInvalidPayload:  http.StatusBadRequest,

	service.ErrSyncNotFound:         http.StatusNotFound,
	service.ErrIncompleteResolution: http.StatusBadRequest,
	service.ErrInvalidResolution:    http.StatusBadRequest,

	store.ErrAccountNotFound: http.StatusConflict,

	store.ErrBuildingSQLQuery:      http.StatusInternalServerError,
	store.ErrExecutingQuery:        http.StatusInternalServerError,
	store.ErrBeginningTransaction:  http.StatusInternalServerError,
	store.ErrCommittingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:    http.StatusInternalServerError,
	store.ErrScanningRows:          http.StatusInternalServerError,
	store.ErrMergeNotApplied:       http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
