package battle

import (
	"fmt"
	"strings"
)

// Status is the lifecycle status of a port battle
type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// legal transitions; anything not listed is rejected
var transitions = map[Status][]Status{
	StatusPlanned: {StatusActive, StatusCancelled},
	StatusActive:  {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether s → next is a legal transition
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsRetired returns true for statuses that no longer accept changes
func (s Status) IsRetired() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus parses a status label, case-insensitively
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPlanned:
		return StatusPlanned, nil
	case StatusActive:
		return StatusActive, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", fmt.Errorf("invalid battle status: %s", s)
}
