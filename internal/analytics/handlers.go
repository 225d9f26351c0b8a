package analytics

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func filtersFromQuery(c *fiber.Ctx) Filters {
	return Filters{
		EmployeeID: c.Query("employeeId"),
		Date:       c.Query("date"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
	}
}

func queryError(err error) error {
	if errors.Is(err, ErrInvalidFilters) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/routes", authMiddleware, func(c *fiber.Ctx) error {
		out, err := svc.RouteAnalytics(c.Context(), filtersFromQuery(c))
		if err != nil {
			return queryError(err)
		}
		return c.JSON(out)
	})

	r.Get("/employees", authMiddleware, func(c *fiber.Ctx) error {
		out, err := svc.EmployeePerformance(c.Context(), filtersFromQuery(c))
		if err != nil {
			return queryError(err)
		}
		return c.JSON(out)
	})

	r.Get("/time", authMiddleware, func(c *fiber.Ctx) error {
		out, err := svc.TimeBased(c.Context(), c.Query("groupBy", "day"), filtersFromQuery(c))
		if err != nil {
			return queryError(err)
		}
		return c.JSON(out)
	})

	r.Get("/fuel", authMiddleware, func(c *fiber.Ctx) error {
		out, err := svc.Fuel(c.Context(), filtersFromQuery(c))
		if err != nil {
			return queryError(err)
		}
		return c.JSON(out)
	})

	r.Get("/top", authMiddleware, func(c *fiber.Ctx) error {
		out, err := svc.TopPerformers(c.Context(), c.Query("metric", "distance"), c.QueryInt("limit", 10), filtersFromQuery(c))
		if err != nil {
			return queryError(err)
		}
		return c.JSON(out)
	})

	r.Get("/hourly", authMiddleware, func(c *fiber.Ctx) error {
		out, err := svc.HourlyActivity(c.Context(), filtersFromQuery(c))
		if err != nil {
			return queryError(err)
		}
		return c.JSON(out)
	})
}
