package geofence

import "github.com/gofiber/fiber/v2"

// RegisterRoutes exposes the smart-completion settings. Reads need a
// valid token; writes additionally pass writeGuard (dispatcher role in
// the server wiring).
func RegisterRoutes(r fiber.Router, monitor *Monitor, authMiddleware, writeGuard fiber.Handler) {
	r.Get("/config", authMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(monitor.ConfigSnapshot())
	})

	r.Put("/config", authMiddleware, writeGuard, func(c *fiber.Ctx) error {
		var req Config
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		monitor.SetConfig(req)
		return c.JSON(monitor.ConfigSnapshot())
	})
}
