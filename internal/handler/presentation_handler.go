package handler

import (
	"net/http"

	"catalog-service/internal/service"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PresentationHandler serves the presentation grouping entity. There is no
// delete endpoint: products may still reference a presentation.
type PresentationHandler struct {
	presentations *service.PresentationService
}

func NewPresentationHandler(presentations *service.PresentationService) *PresentationHandler {
	return &PresentationHandler{presentations: presentations}
}

// List handles GET /api/presentations.
func (h *PresentationHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	presentations, err := h.presentations.List()
	if err != nil {
		log.Error("Failed to list presentations", zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordPresentationOperation("list")
	log.Info("Presentations retrieved", zap.Int("count", len(presentations)))
	return c.JSON(http.StatusOK, presentations)
}

// Get handles GET /api/presentations/:id.
func (h *PresentationHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	presentation, err := h.presentations.Get(id)
	if err != nil {
		log.Warn("Failed to get presentation", zap.Uint("presentation_id", id), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordPresentationOperation("get")
	return c.JSON(http.StatusOK, presentation)
}

// Create handles POST /api/presentations.
func (h *PresentationHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var draft service.PresentationDraft
	if err := c.Bind(&draft); err != nil {
		log.Warn("Invalid request body", zap.Error(err))
		return respondError(c, &service.ValidationError{Messages: []string{"request body is not valid JSON"}})
	}

	presentation, err := h.presentations.Create(draft)
	if err != nil {
		log.Error("Failed to create presentation", zap.String("name", draft.Name), zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordPresentationOperation("create")
	log.Info("Presentation created",
		zap.Uint("presentation_id", presentation.ID),
		zap.String("name", presentation.Name))
	return c.JSON(http.StatusCreated, presentation)
}
