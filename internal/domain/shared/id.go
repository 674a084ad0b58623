package shared

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID generates an entity identifier
func NewID() string {
	return uuid.New().String()
}

// ParseID validates an identifier received from a client
func ParseID(field, id string) (string, error) {
	if id == "" {
		return "", NewValidationError(field, "is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", NewValidationError(field, fmt.Sprintf("invalid id format: %v", err))
	}
	return id, nil
}
