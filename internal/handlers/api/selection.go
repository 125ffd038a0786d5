package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"toxshield/internal/classifier"
	"toxshield/internal/models"
	"toxshield/internal/validation"
	"toxshield/internal/verdict"
)

// SelectionHandler analyzes selected text without touching any tab's cache.
type SelectionHandler struct {
	analyzer classifier.Analyzer
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(a classifier.Analyzer) *SelectionHandler {
	return &SelectionHandler{analyzer: a}
}

// Analyze returns a notification summarizing the verdict for the selection.
func (h *SelectionHandler) Analyze(c fiber.Ctx) error {
	var req models.SelectionRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	text, ok, msg := validation.ValidateSelection(req.Text)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	result := h.analyzer.Analyze(c.Context(), text)
	if result.IsFailure() {
		slog.Warn("selection analysis failed", "error", result.Error)
	}
	title, message := verdict.Notification(result, text)
	return jsonSuccess(c, models.Notification{Title: title, Message: message, Result: result})
}
