package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"toxshield/internal/host"
	"toxshield/internal/models"
	"toxshield/internal/tabs"
	"toxshield/internal/validation"
)

// TabHandler exposes host events (open, reload, focus, close) over JSON.
type TabHandler struct {
	tabs *tabs.Manager
}

// NewTabHandler creates a new tab handler.
func NewTabHandler(m *tabs.Manager) *TabHandler {
	return &TabHandler{tabs: m}
}

// Open opens a tab and starts its observer.
func (h *TabHandler) Open(c fiber.Ctx) error {
	var req models.OpenTabRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.ID <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "invalid tab id")
	}
	if valid, msg := validation.ValidateTabURL(req.URL); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	if err := h.tabs.Open(req.ID, req.URL, tabs.Content{HTML: req.HTML, Text: req.Text}); err != nil {
		if errors.Is(err, host.ErrTabExists) {
			return jsonError(c, fiber.StatusConflict, "tab already open")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to open tab")
	}

	st, err := h.tabs.State(req.ID)
	if err != nil {
		return tabError(c, err)
	}
	return jsonCreated(c, toResponse(st))
}

// Load replaces a tab's content and restarts its automatic pass.
func (h *TabHandler) Load(c fiber.Ctx) error {
	id, err := models.ParseTabID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid tab id")
	}
	var req models.ContentUpdateRequest
	if err := c.Bind().Body(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.tabs.Load(id, tabs.Content{HTML: req.HTML, Text: req.Text}); err != nil {
		return tabError(c, err)
	}
	st, err := h.tabs.State(id)
	if err != nil {
		return tabError(c, err)
	}
	return jsonSuccess(c, toResponse(st))
}

// Activate makes a tab the active one.
func (h *TabHandler) Activate(c fiber.Ctx) error {
	id, err := models.ParseTabID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid tab id")
	}
	if err := h.tabs.Activate(id); err != nil {
		return tabError(c, err)
	}
	st, err := h.tabs.State(id)
	if err != nil {
		return tabError(c, err)
	}
	return jsonSuccess(c, toResponse(st))
}

// Close closes a tab, evicting its cached result.
func (h *TabHandler) Close(c fiber.Ctx) error {
	id, err := models.ParseTabID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid tab id")
	}
	if err := h.tabs.Close(id); err != nil {
		return tabError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Get returns one tab with its indicator and cached result.
func (h *TabHandler) Get(c fiber.Ctx) error {
	id, err := models.ParseTabID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid tab id")
	}
	st, err := h.tabs.State(id)
	if err != nil {
		return tabError(c, err)
	}
	return jsonSuccess(c, toResponse(st))
}

// List returns every open tab.
func (h *TabHandler) List(c fiber.Ctx) error {
	states, err := h.tabs.List()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to list tabs")
	}
	out := make([]models.TabStateResponse, 0, len(states))
	for _, st := range states {
		out = append(out, toResponse(st))
	}
	return jsonSuccess(c, out)
}

// AnalyzeNow sends REQUEST_ANALYZE_NOW to the tab's observer.
func (h *TabHandler) AnalyzeNow(c fiber.Ctx) error {
	id, err := models.ParseTabID(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid tab id")
	}
	resp, err := h.tabs.AnalyzeNow(c.Context(), id)
	if err != nil {
		return tabError(c, err)
	}
	return jsonSuccess(c, resp)
}

func tabError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, host.ErrTabNotFound):
		return jsonError(c, fiber.StatusNotFound, "tab not found")
	case errors.Is(err, tabs.ErrNotWebPage):
		return jsonError(c, fiber.StatusConflict, "tab cannot be analyzed")
	default:
		return messageError(c, err)
	}
}

func toResponse(st tabs.State) models.TabStateResponse {
	return models.TabStateResponse{
		TabID:     st.Info.ID,
		URL:       st.Info.URL,
		Active:    st.Info.Active,
		Indicator: st.Indicator,
		Result:    st.Result,
	}
}
