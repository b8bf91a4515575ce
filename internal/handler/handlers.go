// Package handler aggregates the transport handlers of the application.
// The pairing surface is HTTP-only; the host-side control surface never
// goes through this package.
package handler

import (
	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/handler/http"
	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.App, logger *logger.Logger) *Handlers {
	logger.Info().Msg("creating new handlers...")

	return &Handlers{
		HTTP: http.NewHandler(services, cfg, logger),
	}
}
