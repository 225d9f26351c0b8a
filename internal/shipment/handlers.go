package shipment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var req Shipment
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.EmployeeID == "" || req.Address == "" {
			return fiber.NewError(fiber.StatusBadRequest, "employeeId and address required")
		}
		out, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	})

	r.Get("/", authMiddleware, func(c *fiber.Ctx) error {
		employeeID := c.Query("employeeId")
		if employeeID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "employeeId required")
		}
		out, err := svc.ListByEmployee(c.Context(), employeeID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(out)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		out, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "shipment not found")
		}
		return c.JSON(out)
	})

	r.Patch("/:id/status", authMiddleware, func(c *fiber.Ctx) error {
		var req StatusUpdate
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		out, err := svc.UpdateStatus(c.Context(), c.Params("id"), req)
		if err != nil {
			if errors.Is(err, ErrUnknownStatus) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(out)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.Delete(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
