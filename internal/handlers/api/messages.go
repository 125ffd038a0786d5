package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"

	"toxshield/internal/coordinator"
	"toxshield/internal/middleware"
	"toxshield/internal/models"
	"toxshield/internal/router"
)

// MessageHandler delivers messages to the coordinator over HTTP.
type MessageHandler struct {
	coordinator router.Dispatcher
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(co router.Dispatcher) *MessageHandler {
	return &MessageHandler{coordinator: co}
}

// Send dispatches one message and returns the handler's answer. It expects
// middleware.TabOrigin to run first.
func (h *MessageHandler) Send(c fiber.Ctx) error {
	var msg models.Message
	if err := c.Bind().Body(&msg); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid message body")
	}
	if !msg.Type.Valid() {
		return jsonError(c, fiber.StatusBadRequest, "unknown message type")
	}

	resp, err := h.coordinator.Dispatch(c.Context(), router.Envelope{
		Type:    msg.Type,
		Origin:  middleware.Origin(c),
		Payload: msg.Payload,
	})
	if err != nil {
		return messageError(c, err)
	}
	return jsonSuccess(c, resp)
}

func messageError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, router.ErrUnknownType),
		errors.Is(err, router.ErrUnhandled),
		errors.Is(err, router.ErrBadPayload),
		errors.Is(err, coordinator.ErrNoOrigin):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, coordinator.ErrUnknownTab):
		return jsonError(c, fiber.StatusNotFound, "tab not found")
	case errors.Is(err, context.DeadlineExceeded):
		return jsonError(c, fiber.StatusGatewayTimeout, "message timed out")
	case errors.Is(err, context.Canceled):
		return jsonError(c, fiber.StatusServiceUnavailable, "message cancelled")
	default:
		return jsonError(c, fiber.StatusInternalServerError, "failed to handle message")
	}
}
