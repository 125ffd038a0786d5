package middleware

import (
	"github.com/gofiber/fiber/v3"

	"toxshield/internal/models"
	"toxshield/internal/router"
)

// TabHeader names the tab a request was sent from. The panel omits it.
const TabHeader = "X-Tab-ID"

const originKey = "origin"

// TabOrigin reads the sending tab from the X-Tab-ID header and stores the
// message origin for handlers. Requests without the header come from the
// panel; a malformed header is rejected.
func TabOrigin(c fiber.Ctx) error {
	origin := router.Origin{}
	if raw := c.Get(TabHeader); raw != "" {
		tab, err := models.ParseTabID(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status": "error",
				"error":  "invalid " + TabHeader + " header",
			})
		}
		origin = router.FromTab(tab)
	}

	c.Locals(originKey, origin)
	return c.Next()
}

// Origin returns the origin stored by TabOrigin.
func Origin(c fiber.Ctx) router.Origin {
	origin, _ := c.Locals(originKey).(router.Origin)
	return origin
}
