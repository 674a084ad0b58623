// Package captainscode models shareable, expiring, usage-limited codes that let
// external captains sign up for one specific battle.
package captainscode

import (
	"strings"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// ValidationResult is the outcome of validating a code against a battle
type ValidationResult string

const (
	ResultValid       ValidationResult = "VALID"
	ResultExpired     ValidationResult = "EXPIRED"
	ResultExhausted   ValidationResult = "EXHAUSTED"
	ResultInactive    ValidationResult = "INACTIVE"
	ResultWrongBattle ValidationResult = "WRONG_BATTLE"
	ResultNotFound    ValidationResult = "NOT_FOUND"
)

func (r ValidationResult) IsValid() bool {
	return r == ResultValid
}

// Err converts a failed result into a CodeRejectedError; nil when valid
func (r ValidationResult) Err(code string) error {
	if r.IsValid() {
		return nil
	}
	return shared.NewCodeRejectedError(code, string(r))
}

// MaxTTL bounds how long an issued code may stay valid
const MaxTTL = 30 * 24 * time.Hour

// CaptainsCode is a shareable access token for one battle
type CaptainsCode struct {
	code        string
	battleID    string
	description string
	isActive    bool
	maxUsage    int
	usageCount  int
	expiresAt   time.Time
	createdBy   string
	createdAt   time.Time
}

// NewCaptainsCode creates an active code valid for ttl from now
func NewCaptainsCode(
	code, battleID, description string,
	maxUsage int,
	ttl time.Duration,
	createdBy string,
	now time.Time,
) (*CaptainsCode, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewValidationError("code", "required")
	}
	if battleID == "" {
		return nil, shared.NewValidationError("battleId", "required")
	}
	if maxUsage < 1 {
		return nil, shared.NewValidationError("maxUsage", "must be at least 1")
	}
	if ttl <= 0 || ttl > MaxTTL {
		return nil, shared.NewValidationError("ttl", "must be positive and at most 30 days")
	}

	return &CaptainsCode{
		code:        strings.ToUpper(code),
		battleID:    battleID,
		description: strings.TrimSpace(description),
		isActive:    true,
		maxUsage:    maxUsage,
		expiresAt:   now.Add(ttl),
		createdBy:   createdBy,
		createdAt:   now,
	}, nil
}

// ReconstructCaptainsCode rebuilds a code from persistence
func ReconstructCaptainsCode(
	code, battleID, description string,
	isActive bool,
	maxUsage, usageCount int,
	expiresAt time.Time,
	createdBy string,
	createdAt time.Time,
) *CaptainsCode {
	return &CaptainsCode{
		code:        code,
		battleID:    battleID,
		description: description,
		isActive:    isActive,
		maxUsage:    maxUsage,
		usageCount:  usageCount,
		expiresAt:   expiresAt,
		createdBy:   createdBy,
		createdAt:   createdAt,
	}
}

func (c *CaptainsCode) Code() string         { return c.code }
func (c *CaptainsCode) BattleID() string     { return c.battleID }
func (c *CaptainsCode) Description() string  { return c.description }
func (c *CaptainsCode) IsActive() bool       { return c.isActive }
func (c *CaptainsCode) MaxUsage() int        { return c.maxUsage }
func (c *CaptainsCode) UsageCount() int      { return c.usageCount }
func (c *CaptainsCode) ExpiresAt() time.Time { return c.expiresAt }
func (c *CaptainsCode) CreatedBy() string    { return c.createdBy }
func (c *CaptainsCode) CreatedAt() time.Time { return c.createdAt }

// RemainingUses returns how many more signups the code admits
func (c *CaptainsCode) RemainingUses() int {
	if c.usageCount >= c.maxUsage {
		return 0
	}
	return c.maxUsage - c.usageCount
}

// Validate checks the code for battleID at now without mutating it.
// Checks run in order: wrong battle, inactive, expired, exhausted.
func (c *CaptainsCode) Validate(now time.Time, battleID string) ValidationResult {
	switch {
	case c.battleID != battleID:
		return ResultWrongBattle
	case !c.isActive:
		return ResultInactive
	case !now.Before(c.expiresAt):
		return ResultExpired
	case c.usageCount >= c.maxUsage:
		return ResultExhausted
	}
	return ResultValid
}

// Evaluate validates a possibly missing code
func Evaluate(c *CaptainsCode, now time.Time, battleID string) ValidationResult {
	if c == nil {
		return ResultNotFound
	}
	return c.Validate(now, battleID)
}

// Normalize canonicalizes user input for lookup
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
