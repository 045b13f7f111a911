package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/katakuxiko/askexperts/internal/logger"
)

const requestIDKey = "requestid"

// NewApp returns a fiber app with the middleware stack and routes registered.
func NewApp(h *Handler, routePrefix string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(requestid.New(requestid.Config{ContextKey: requestIDKey}))
	app.Use(recover.New())
	app.Use(accessLog)

	RegisterRoutes(app, h, routePrefix)
	return app
}

func RegisterRoutes(app *fiber.App, h *Handler, routePrefix string) {
	app.Get("/health", h.Health)
	app.All(routePrefix+"/AskQuestion", h.AskQuestion)
}

// ErrorHandler answers every unexpected error with the same generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).SendString(fe.Message)
	}
	logger.Error("request failed",
		zap.String("request_id", requestID(c)),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
}

func accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	logger.Info("request",
		zap.String("request_id", requestID(c)),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("latency", time.Since(start)),
	)
	return nil
}

func requestID(c *fiber.Ctx) string {
	if rid, ok := c.Locals(requestIDKey).(string); ok {
		return rid
	}
	return ""
}
