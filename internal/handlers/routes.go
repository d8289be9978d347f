package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts every endpoint on app. The search route is
// registered ahead of /documents/:id so it is not parsed as an id.
func RegisterRoutes(app *fiber.App, health *HealthHandler, upload *UploadHandler, documents *DocumentHandler) {
	app.Get("/", health.HandleRoot)
	app.Get("/health", health.HandleHealth)
	app.Get("/stats", health.HandleStats)

	app.Post("/upload", upload.HandleUpload)

	app.Get("/documents", documents.HandleList)
	app.Get("/documents/search", documents.HandleSearch)
	app.Get("/documents/:id", documents.HandleGet)
	app.Delete("/documents/:id", documents.HandleDelete)
}

// ErrorHandler renders unhandled errors as {"error", "code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
