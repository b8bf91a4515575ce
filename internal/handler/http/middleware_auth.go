package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/service"
	"github.com/MKhiriev/orbit-sync/internal/utils"
)

// auth is an HTTP middleware that enforces session-token authentication on
// the upload route.
//
// It inspects the incoming "Authorization" header, extracts the bearer
// token, validates it against the active pairing session via
// [service.SessionService.ValidateToken], and on success stores the paired
// device's name under [utils.DeviceNameCtxKey] and the raw token under
// [utils.SyncTokenCtxKey] before delegating to the next handler.
//
// Requests are rejected with HTTP 401 Unauthorized when the header is
// absent or malformed, when no paired session exists, or when the token
// does not belong to the active session; an expired session also maps to
// 401 through [statusFromError].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		deviceName, err := h.services.Session.ValidateToken(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrSessionExpired):
				log.Err(err).Msg("session expired")
				http.Error(w, service.ErrSessionExpired.Error(), http.StatusUnauthorized)
				return
			default:
				log.Err(err).Msg("error occurred during token validation")
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
		}

		// Store the device name and the validated token in the context so
		// downstream handlers can use them without touching the header again.
		ctx := context.WithValue(r.Context(), utils.DeviceNameCtxKey, deviceName)
		ctx = context.WithValue(ctx, utils.SyncTokenCtxKey, tokenString)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value.
//
// The header is expected to follow the standard format:
//
//	Authorization: <scheme> <token>
//
// It returns [ErrInvalidAuthorizationHeader] if the header contains fewer
// than two space-separated parts, and [ErrEmptyToken] if the second part
// exists but is an empty string.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
