package http

import (
	"github.com/MKhiriev/orbit-sync/internal/config"
	"github.com/MKhiriev/orbit-sync/internal/logger"
	"github.com/MKhiriev/orbit-sync/internal/service"
)

type Handler struct {
	services *service.Services
	version  string

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.App, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		version:  cfg.Version,
		logger:   logger,
	}
}
