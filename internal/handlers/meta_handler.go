package handlers

import (
	"github.com/gofiber/fiber/v3"

	"file-share-api/internal/models"
)

// MetaHandler exposes informational endpoints about the API surface.
type MetaHandler struct {
	version string
}

// NewMetaHandler constructs a metadata handler.
func NewMetaHandler(version string) *MetaHandler {
	if version == "" {
		version = "1.0.0"
	}

	return &MetaHandler{
		version: version,
	}
}

// APIInfo godoc
// @Summary API metadata
// @Description Provides API version and available endpoint catalogue.
// @Tags General
// @Produce json
// @Success 200 {object} models.APIInfoResponse
// @Router /api [get]
func (h *MetaHandler) APIInfo(c fiber.Ctx) error {
	endpoints := map[string]string{
		"upload":        "/upload",
		"upload_async":  "/upload/async",
		"upload_status": "/upload/status/{id}",
		"upload_list":   "/upload/list",
		"upload_stats":  "/upload/stats",
		"health":        "/health",
	}

	return c.JSON(models.APIInfoResponse{
		Name:      "File Share API",
		Version:   h.version,
		Endpoints: endpoints,
	})
}
