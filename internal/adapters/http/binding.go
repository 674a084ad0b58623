package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/config"
)

// newValidator reports JSON field names so clients can highlight inputs
func newValidator() *config.Validator {
	return config.NewValidator("json")
}

// bind decodes the JSON body into out and runs its validate tags
func (s *Server) bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return shared.NewValidationError("body", "malformed JSON body")
	}
	return s.check(out)
}

func (s *Server) check(out interface{}) error {
	fields, err := s.validate.InvalidFields(out)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}
	return shared.NewMultiValidationError(fields, "missing or invalid")
}
