package http

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// errorBody is the JSON shape of every failed request
type errorBody struct {
	Error        string     `json:"error"`
	Code         string     `json:"code"`
	Fields       []string   `json:"fields,omitempty"`
	CanReapplyAt *time.Time `json:"canReapplyAt,omitempty"`
	Overage      *int       `json:"overage,omitempty"`
	Limit        *int       `json:"limit,omitempty"`
}

var kindStatus = map[shared.ErrorKind]int{
	shared.KindValidation:   fiber.StatusBadRequest,
	shared.KindUnauthorized: fiber.StatusUnauthorized,
	shared.KindForbidden:    fiber.StatusForbidden,
	shared.KindNotFound:     fiber.StatusNotFound,
	shared.KindConflict:     fiber.StatusConflict,
	shared.KindUnavailable:  fiber.StatusServiceUnavailable,
}

// statusFor maps an error to its HTTP status
func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	if status, ok := kindStatus[shared.KindOf(err)]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

func toErrorBody(err error) errorBody {
	body := errorBody{Error: err.Error()}

	var de *shared.DomainError
	var fe *fiber.Error
	switch {
	case errors.As(err, &de):
		body.Code = de.Code
		body.Fields = de.Fields
	case errors.As(err, &fe):
		body.Code = "HTTP_ERROR"
		body.Error = fe.Message
	default:
		// internal details stay in the server log
		body.Code = "INTERNAL"
		body.Error = "internal server error"
	}

	var cooldown *shared.CooldownActiveError
	if errors.As(err, &cooldown) {
		at := cooldown.CanReapplyAt.UTC()
		body.CanReapplyAt = &at
	}
	var budget *shared.BudgetExceededError
	if errors.As(err, &budget) {
		overage, limit := budget.Overage, budget.Limit
		body.Overage = &overage
		body.Limit = &limit
	}
	return body
}

// errorHandler renders every error returned from a route
func errorHandler(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("[http] %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(toErrorBody(err))
}

func badRequest(field, message string) error {
	return shared.NewValidationError(field, message)
}
