// Package battle models the port battle aggregate root: schedule, location,
// water type, BR limit, commanders and lifecycle status.
package battle

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// Commanders names the three optional command roles of a battle
type Commanders struct {
	Battle        string
	Screening     string
	Reinforcement string
}

// Details is the mutable, user-supplied part of a port battle
type Details struct {
	PortName        string
	MeetupTime      time.Time
	BattleStartTime time.Time
	WaterType       catalog.WaterType
	MeetupLocation  string
	BRLimit         int
	Nation          string
	Commanders      Commanders
}

// Validate checks the field invariants of battle details
func (d Details) Validate() error {
	var missing []string
	if strings.TrimSpace(d.PortName) == "" {
		missing = append(missing, "portName")
	}
	if d.MeetupTime.IsZero() {
		missing = append(missing, "meetupTime")
	}
	if d.BattleStartTime.IsZero() {
		missing = append(missing, "battleStartTime")
	}
	if len(missing) > 0 {
		return shared.NewMultiValidationError(missing, "required")
	}
	if d.WaterType != catalog.WaterTypeDeep && d.WaterType != catalog.WaterTypeShallow {
		return shared.NewValidationError("waterType", fmt.Sprintf("invalid water type %q", d.WaterType))
	}
	if d.BattleStartTime.Before(d.MeetupTime) {
		return shared.NewValidationError("battleStartTime", "must not be before meetupTime")
	}
	if d.BRLimit <= 0 {
		return shared.NewValidationError("brLimit", "must be positive")
	}
	return nil
}

// PortBattle is the aggregate root for a scheduled engagement.
// The creator is fixed at construction and never changes.
type PortBattle struct {
	id        string
	details   Details
	status    Status
	creatorID string
	createdAt time.Time
	updatedAt time.Time
}

// NewPortBattle validates details and creates a PLANNED battle
func NewPortBattle(details Details, creatorID string, now time.Time) (*PortBattle, error) {
	details = normalize(details)
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(creatorID) == "" {
		return nil, shared.NewValidationError("creatorId", "required")
	}

	return &PortBattle{
		id:        shared.NewID(),
		details:   details,
		status:    StatusPlanned,
		creatorID: creatorID,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPortBattle rebuilds a battle from persistence without validation
func ReconstructPortBattle(
	id string,
	details Details,
	status Status,
	creatorID string,
	createdAt, updatedAt time.Time,
) *PortBattle {
	return &PortBattle{
		id:        id,
		details:   details,
		status:    status,
		creatorID: creatorID,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func normalize(d Details) Details {
	d.PortName = strings.TrimSpace(d.PortName)
	d.MeetupLocation = strings.TrimSpace(d.MeetupLocation)
	d.Nation = strings.TrimSpace(d.Nation)
	d.Commanders.Battle = strings.TrimSpace(d.Commanders.Battle)
	d.Commanders.Screening = strings.TrimSpace(d.Commanders.Screening)
	d.Commanders.Reinforcement = strings.TrimSpace(d.Commanders.Reinforcement)
	d.MeetupTime = d.MeetupTime.UTC()
	d.BattleStartTime = d.BattleStartTime.UTC()
	return d
}

// Getters

func (b *PortBattle) ID() string                   { return b.id }
func (b *PortBattle) Details() Details             { return b.details }
func (b *PortBattle) PortName() string             { return b.details.PortName }
func (b *PortBattle) MeetupTime() time.Time        { return b.details.MeetupTime }
func (b *PortBattle) BattleStartTime() time.Time   { return b.details.BattleStartTime }
func (b *PortBattle) WaterType() catalog.WaterType { return b.details.WaterType }
func (b *PortBattle) MeetupLocation() string       { return b.details.MeetupLocation }
func (b *PortBattle) BRLimit() int                 { return b.details.BRLimit }
func (b *PortBattle) Nation() string               { return b.details.Nation }
func (b *PortBattle) Commanders() Commanders       { return b.details.Commanders }
func (b *PortBattle) Status() Status               { return b.status }
func (b *PortBattle) CreatorID() string            { return b.creatorID }
func (b *PortBattle) CreatedAt() time.Time         { return b.createdAt }
func (b *PortBattle) UpdatedAt() time.Time         { return b.updatedAt }

// Business logic

// TransitionTo moves the battle to next if the transition is legal
func (b *PortBattle) TransitionTo(next Status, now time.Time) error {
	if !b.status.CanTransitionTo(next) {
		return shared.NewInvalidTransitionError(string(b.status), string(next))
	}
	b.status = next
	b.updatedAt = now
	return nil
}

// UpdateDetails replaces the editable details; only planned battles may be edited
func (b *PortBattle) UpdateDetails(details Details, now time.Time) error {
	if b.status != StatusPlanned {
		return shared.NewConflictError(shared.CodeInvalidTransition,
			fmt.Sprintf("battle %s is %s and can no longer be edited", b.id, b.status))
	}
	details = normalize(details)
	if err := details.Validate(); err != nil {
		return err
	}
	b.details = details
	b.updatedAt = now
	return nil
}

// IsOwnedBy reports whether userID created the battle
func (b *PortBattle) IsOwnedBy(userID string) bool {
	return userID != "" && b.creatorID == userID
}

// EndTime is the nominal end of the battle window used by calendar views
func (b *PortBattle) EndTime() time.Time {
	return b.details.BattleStartTime.Add(NominalDuration)
}

// NominalDuration is the calendar length of a port battle
const NominalDuration = 2 * time.Hour

func (b *PortBattle) String() string {
	return fmt.Sprintf("PortBattle[%s, port=%s, start=%s, status=%s]",
		b.id, b.details.PortName, b.details.BattleStartTime.Format(time.RFC3339), b.status)
}
