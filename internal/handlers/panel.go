package handlers

import (
	"github.com/gofiber/fiber/v3"

	"toxshield/internal/panel"
)

// PanelHandler renders the results panel.
type PanelHandler struct {
	panel     *panel.Panel
	endpoints EndpointStatus
}

// NewPanelHandler creates a new panel handler. endpoints may be nil.
func NewPanelHandler(p *panel.Panel, endpoints EndpointStatus) *PanelHandler {
	return &PanelHandler{panel: p, endpoints: endpoints}
}

// Show renders the last result for the active tab.
func (h *PanelHandler) Show(c fiber.Ctx) error {
	return h.render(c, h.panel.Open(c.Context()))
}

// Refresh forces a fresh analysis of the active tab and renders it.
func (h *PanelHandler) Refresh(c fiber.Ctx) error {
	return h.render(c, h.panel.Refresh(c.Context()))
}

func (h *PanelHandler) render(c fiber.Ctx, v panel.View) error {
	data := fiber.Map{
		"Title":    "Toxicity Shield",
		"View":     v,
		"Headline": v.Headline(),
		"Verdict":  v.Verdict,
	}
	if h.endpoints != nil {
		data["Endpoints"] = h.endpoints.Status()
	}
	return c.Render("panel", data)
}
