package handlers

import (
	"github.com/abhi1580/coaching-center-sub003/database"
	"github.com/abhi1580/coaching-center-sub003/utils/response"
	"github.com/gofiber/fiber/v2"
)

// HandleCheckHealth reports service and database health.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	if err := store.HealthCheck(); err != nil {
		return response.ServiceUnavailable(c, "Database is unreachable")
	}
	return response.Success(c, fiber.Map{"status": "ok"})
}
