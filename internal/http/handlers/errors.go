package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"warehouse/internal/domain"
	applog "warehouse/internal/log"
)

const friendlyError = "Something went wrong. Please try again."

func statusFor(kind string) int {
	switch kind {
	case "validation", "stock_exceeded":
		return fiber.StatusBadRequest
	case "invariant_violation":
		return fiber.StatusConflict
	case "not_found":
		return fiber.StatusNotFound
	case "transport":
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {"error","kind"} with the status of err's family.
// Client errors are echoed; server-side causes stay in the log.
func respondError(c *fiber.Ctx, action string, err error) error {
	kind := domain.Kind(err)
	status := statusFor(kind)
	c.Status(status)

	msg := err.Error()
	var pc *domain.PartialCommitError
	switch {
	case errors.As(err, &pc):
		msg = fmt.Sprintf("sale %s was only partly written and needs reconciliation", pc.SaleID)
	case kind == "transport":
		msg = domain.ErrTransport.Error()
	case status >= fiber.StatusInternalServerError:
		msg = friendlyError
	}

	if status >= fiber.StatusInternalServerError {
		applog.Error(c, action+".fail", err, map[string]any{"kind": kind})
	} else {
		applog.Warn(c, action+".reject", map[string]any{"kind": kind, "reason": err.Error()})
	}
	return c.JSON(fiber.Map{"error": msg, "kind": kind})
}

// ErrorHandler is the app-wide fallback for errors no handler answered.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := friendlyError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	c.Status(code)
	applog.Error(c, "server.error", err, nil)

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.JSON(fiber.Map{"error": msg, "kind": "internal"})
	}
	if rerr := c.Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.SendString(msg)
	}
	return nil
}

// NotFound answers unknown routes.
func NotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.JSON(fiber.Map{"error": "route not found", "kind": "not_found"})
	}
	return c.Render("notfound", fiber.Map{"Message": "Page not found"})
}

func badBody(c *fiber.Ctx, action string, err error) error {
	return respondError(c, action, &domain.ValidationError{Field: "body", Msg: "malformed JSON body", Cause: err})
}
