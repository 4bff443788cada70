package middleware

import (
	"dongs-backend/internal/pkg/apperr"
	"dongs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler is the global error handler. Typed domain errors map to their
// HTTP status and carry structured details; everything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	details := map[string]interface{}{}

	if ae := apperr.As(err); ae != nil {
		code = apperr.Status(ae)
		message = ae.Message
		details = apperr.Details(ae)
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	if code >= 500 {
		log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("Request failed")
	}

	return response.Error(c, message, code, details)
}
