package http

import (
	"github.com/avetra/bizsync/internal/logger"
	"github.com/avetra/bizsync/internal/service"
)

// Handler serves both faces of the sync API: the operator surface that
// starts, inspects, cancels, and validates sessions, and the peer surface
// that the other instance's driver calls for entity batches and snapshot
// streams.
type Handler struct {
	services *service.Services

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}
