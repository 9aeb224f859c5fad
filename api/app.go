package api

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ani/ani-scrape/fetcher"
	"github.com/ani/ani-scrape/httpx"
	"github.com/ani/ani-scrape/scrape"
)

// creates a new fiber app with the json encoder and error mapping
// and setup middlewares
func InitApp() *fiber.App {
	f := fiber.New(fiber.Config{
		AppName:                 "ani-scrape",
		EnableTrustedProxyCheck: true,
		EnableIPValidation:      true,
		UnescapePath:            true,
		JSONEncoder:             json.Marshal,
		JSONDecoder:             json.Unmarshal,
		ErrorHandler:            errorHandler,
	})
	var once sync.Once

	once.Do(func() {
		f.Use(logger.New(logger.Config{
			Format: "[${ip}]:${port} ${status} - ${method} ${path}\n",
		}))
		f.Use(recover.New())
	})

	return f
}

type errorResponse struct {
	Message string `json:"message"`
}

// errorHandler maps fetch failures to gateway errors and layout changes to 422,
// so clients can tell a dead mirror from a redesigned one.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var (
		fe *fiber.Error
		te *httpx.TransportError
		ee *scrape.ExtractionError
	)
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, fetcher.ErrUnknownSite):
		code = fiber.StatusNotFound
	case errors.Is(err, context.Canceled):
		code = fiber.StatusServiceUnavailable
	case errors.As(err, &te):
		code = fiber.StatusBadGateway
	case errors.As(err, &ee):
		code = fiber.StatusUnprocessableEntity
	}
	return c.Status(code).JSON(errorResponse{Message: err.Error()})
}
