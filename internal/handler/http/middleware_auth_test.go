package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/orbit-sync/internal/service"
	"github.com/MKhiriev/orbit-sync/internal/store"
)

func TestGetTokenFromAuthHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "bearer token", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "scheme only", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "empty token value", header: "Bearer ", wantErr: ErrEmptyToken},
		{name: "bare token without scheme", header: "abc.def.ghi", wantErr: ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: service.ErrUnauthorized, want: http.StatusUnauthorized},
		{err: service.ErrSessionExpired, want: http.StatusUnauthorized},
		{err: service.ErrAlreadyPaired, want: http.StatusConflict},
		{err: service.ErrAlreadyIngested, want: http.StatusConflict},
		{err: service.ErrInvalidPayload, want: http.StatusBadRequest},
		{err: service.ErrSyncNotFound, want: http.StatusNotFound},
		{err: fmt.Errorf("merging sync batch: %w", store.ErrExecutingStatement), want: http.StatusInternalServerError},
		{err: assert.AnError, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
