package handlers

import (
	"strconv"
	"strings"

	"clinicdesk-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// errorMessages are the client-facing texts per error kind. Empty falls back
// to the error's own message (validation) or a generic text.
type errorMessages struct {
	NotFound  string
	Duplicate string
	Internal  string
}

// respondError translates a service error to a status and JSON body. 5xx
// details are logged and never returned.
func respondError(c *fiber.Ctx, err error, msgs errorMessages) error {
	status := apperr.Status(err)
	msg := apperr.Message(err)

	switch status {
	case fiber.StatusNotFound:
		if msgs.NotFound != "" {
			msg = msgs.NotFound
		}
	case fiber.StatusConflict:
		if msgs.Duplicate != "" {
			msg = msgs.Duplicate
		}
	case fiber.StatusBadRequest, fiber.StatusUnauthorized:
	default:
		msg = msgs.Internal
		if msg == "" {
			msg = "Internal Server Error"
		}
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg(msg)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// positiveQuery reads an optional positive integer query parameter.
func positiveQuery(c *fiber.Ctx, key string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
