package tracking

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/sessions", authMiddleware, func(c *fiber.Ctx) error {
		var req Session
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.EmployeeID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "employeeId required")
		}
		session, err := svc.StartSession(c.Context(), req)
		if err != nil {
			return serviceError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	r.Post("/sessions/:id/stop", authMiddleware, func(c *fiber.Ctx) error {
		var req struct {
			EndLatitude  *float64 `json:"endLatitude"`
			EndLongitude *float64 `json:"endLongitude"`
		}
		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		session, err := svc.StopSession(c.Context(), c.Params("id"), req.EndLatitude, req.EndLongitude)
		if err != nil {
			return serviceError(err)
		}
		return c.JSON(session)
	})

	r.Post("/sessions/:id/fixes", authMiddleware, func(c *fiber.Ctx) error {
		var req GPSFix
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		fix, err := svc.AddFix(c.Context(), c.Params("id"), req)
		if err != nil {
			return serviceError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(fix)
	})

	r.Post("/sessions/:id/fixes/batch", authMiddleware, func(c *fiber.Ctx) error {
		var req []GPSFix
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		result := svc.AddFixBatch(c.Context(), c.Params("id"), req)
		return c.JSON(result)
	})

	r.Get("/sessions/:id/fixes", authMiddleware, func(c *fiber.Ctx) error {
		fixes, err := svc.FixesBySession(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fixes)
	})

	r.Get("/sessions/:id/summary", authMiddleware, func(c *fiber.Ctx) error {
		summary, err := svc.Summary(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(summary)
	})

	r.Post("/sessions/:id/recalculate", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Recalculate(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func serviceError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidCoordinate):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrSessionNotActive):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
