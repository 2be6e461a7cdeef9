package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"nftickets/internal/repositories"
	"nftickets/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repositories.ErrValidation),
		errors.Is(err, repositories.ErrSoldOut),
		errors.Is(err, repositories.ErrInvalidCode):
		return fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, repositories.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, log *logger.Logger, err error, message string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorw(message, "path", c.Path(), "error", err)
	} else {
		log.Debug(message, ": ", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// fieldErrors carries per-field validation failures keyed by JSON name.
type fieldErrors map[string]string

func (f fieldErrors) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(f))
}

// bind decodes and validates a request body.
func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return err
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		errorMessages := make(fieldErrors)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return errorMessages
	}
	return nil
}

func respondBindError(c *fiber.Ctx, err error) error {
	var fields fieldErrors
	if errors.As(err, &fields) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  fields,
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, repositories.ErrValidation)
	}
	return uint(id), nil
}
