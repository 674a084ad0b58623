// Package dtos holds the read models returned by battle, fleet, signup and
// screening handlers.
package dtos

import (
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/screening"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/domain/signup"
)

// BattleDTO is the summary view of a port battle
type BattleDTO struct {
	ID                     string    `json:"id"`
	PortName               string    `json:"portName"`
	MeetupTime             time.Time `json:"meetupTime"`
	BattleStartTime        time.Time `json:"battleStartTime"`
	WaterType              string    `json:"waterType"`
	MeetupLocation         string    `json:"meetupLocation"`
	BRLimit                int       `json:"brLimit"`
	Nation                 string    `json:"nation,omitempty"`
	BattleCommander        string    `json:"battleCommander,omitempty"`
	ScreeningCommander     string    `json:"screeningCommander,omitempty"`
	ReinforcementCommander string    `json:"reinforcementCommander,omitempty"`
	Status                 string    `json:"status"`
	CreatorID              string    `json:"creatorId"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// SignupDTO is a role signup
type SignupDTO struct {
	ID              string     `json:"id"`
	BattleID        string     `json:"portBattleId"`
	RoleID          string     `json:"roleId"`
	UserID          string     `json:"userId,omitempty"`
	CaptainName     string     `json:"captainName"`
	ClanName        string     `json:"clanName,omitempty"`
	WillingToScreen bool       `json:"willingToScreen"`
	Comments        string     `json:"comments,omitempty"`
	ContactInfo     string     `json:"contactInfo,omitempty"`
	IsExternal      bool       `json:"isExternalSignup"`
	CaptainsCode    string     `json:"captainsCode,omitempty"`
	Status          string     `json:"status"`
	ReviewedBy      string     `json:"reviewedBy,omitempty"`
	ReviewReason    string     `json:"reviewReason,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	// Role context, filled by listings
	ShipName  string `json:"shipName,omitempty"`
	RoleOrder int    `json:"roleOrder,omitempty"`
}

// RoleDTO is a role slot with its signups
type RoleDTO struct {
	ID        string      `json:"id"`
	SetupID   string      `json:"setupId"`
	RoleOrder int         `json:"roleOrder"`
	ShipName  string      `json:"shipName"`
	BRValue   int         `json:"brValue"`
	Signups   []SignupDTO `json:"signups"`
}

// SetupDTO is a fleet setup with its roles
type SetupDTO struct {
	ID         string    `json:"id"`
	BattleID   string    `json:"portBattleId"`
	Name       string    `json:"name"`
	IsActive   bool      `json:"isActive"`
	SetupOrder int       `json:"setupOrder"`
	BRTotal    int       `json:"brTotal"`
	Roles      []RoleDTO `json:"roles"`
}

// ScreeningSignupDTO is a screening signup
type ScreeningSignupDTO struct {
	ID           string     `json:"id"`
	FleetID      string     `json:"screeningFleetId"`
	UserID       string     `json:"userId,omitempty"`
	CaptainName  string     `json:"captainName"`
	ClanName     string     `json:"clanName,omitempty"`
	ShipName     string     `json:"shipName,omitempty"`
	Status       string     `json:"status"`
	ReviewedBy   string     `json:"reviewedBy,omitempty"`
	ReviewReason string     `json:"reviewReason,omitempty"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ScreeningFleetDTO is a screening fleet with its signups
type ScreeningFleetDTO struct {
	ID            string               `json:"id"`
	BattleID      string               `json:"portBattleId"`
	Type          string               `json:"type"`
	Observation   string               `json:"observation,omitempty"`
	RequiredShips []string             `json:"requiredShips"`
	Nation        string               `json:"nation,omitempty"`
	Commander     string               `json:"commander,omitempty"`
	ShipsRequired *int                 `json:"shipsRequired,omitempty"`
	OverCapacity  bool                 `json:"overCapacity"`
	Signups       []ScreeningSignupDTO `json:"signups"`
}

// BattleAggregateDTO is the full read model of one battle
type BattleAggregateDTO struct {
	Battle          BattleDTO           `json:"battle"`
	Setups          []SetupDTO          `json:"setups"`
	ScreeningFleets []ScreeningFleetDTO `json:"screeningFleets"`
	IsMockData      bool                `json:"isMockData"`
}

// CaptainsCodeDTO is an issued captains code
type CaptainsCodeDTO struct {
	Code          string    `json:"code"`
	BattleID      string    `json:"portBattleId"`
	Description   string    `json:"description,omitempty"`
	IsActive      bool      `json:"isActive"`
	MaxUsage      int       `json:"maxUsage"`
	UsageCount    int       `json:"usageCount"`
	RemainingUses int       `json:"remainingUses"`
	ExpiresAt     time.Time `json:"expiresAt"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

func ToBattleDTO(b *battle.PortBattle) BattleDTO {
	c := b.Commanders()
	return BattleDTO{
		ID:                     b.ID(),
		PortName:               b.PortName(),
		MeetupTime:             b.MeetupTime(),
		BattleStartTime:        b.BattleStartTime(),
		WaterType:              string(b.WaterType()),
		MeetupLocation:         b.MeetupLocation(),
		BRLimit:                b.BRLimit(),
		Nation:                 b.Nation(),
		BattleCommander:        c.Battle,
		ScreeningCommander:     c.Screening,
		ReinforcementCommander: c.Reinforcement,
		Status:                 string(b.Status()),
		CreatorID:              b.CreatorID(),
		CreatedAt:              b.CreatedAt(),
		UpdatedAt:              b.UpdatedAt(),
	}
}

func ToSetupDTO(s *fleet.FleetSetup) SetupDTO {
	return SetupDTO{
		ID:         s.ID(),
		BattleID:   s.BattleID(),
		Name:       s.Name(),
		IsActive:   s.IsActive(),
		SetupOrder: s.SetupOrder(),
		BRTotal:    s.BRTotal(),
		Roles:      []RoleDTO{},
	}
}

func ToRoleDTO(r *fleet.FleetRole) RoleDTO {
	return RoleDTO{
		ID:        r.ID(),
		SetupID:   r.SetupID(),
		RoleOrder: r.RoleOrder(),
		ShipName:  r.ShipName(),
		BRValue:   r.BRValue(),
		Signups:   []SignupDTO{},
	}
}

func ToSignupDTO(s *signup.Signup) SignupDTO {
	info := s.Info()
	return SignupDTO{
		ID:              s.ID(),
		BattleID:        s.BattleID(),
		RoleID:          s.RoleID(),
		UserID:          s.UserID(),
		CaptainName:     info.CaptainName,
		ClanName:        info.ClanName,
		WillingToScreen: info.WillingToScreen,
		Comments:        info.Comments,
		ContactInfo:     info.ContactInfo,
		IsExternal:      info.IsExternal,
		CaptainsCode:    info.CaptainsCode,
		Status:          string(s.Status()),
		ReviewedBy:      s.ReviewedBy(),
		ReviewReason:    s.ReviewReason(),
		ReviewedAt:      s.ReviewedAt(),
		CreatedAt:       s.CreatedAt(),
		UpdatedAt:       s.UpdatedAt(),
	}
}

func ToScreeningFleetDTO(f *screening.ScreeningFleet) ScreeningFleetDTO {
	req := f.Requirements()
	ships := req.RequiredShips
	if ships == nil {
		ships = []string{}
	}
	return ScreeningFleetDTO{
		ID:            f.ID(),
		BattleID:      f.BattleID(),
		Type:          string(req.Type),
		Observation:   req.Observation,
		RequiredShips: ships,
		Nation:        req.Nation,
		Commander:     req.Commander,
		ShipsRequired: req.ShipsRequired,
		Signups:       []ScreeningSignupDTO{},
	}
}

func ToScreeningSignupDTO(s *screening.ScreeningSignup) ScreeningSignupDTO {
	return ScreeningSignupDTO{
		ID:           s.ID(),
		FleetID:      s.FleetID(),
		UserID:       s.UserID(),
		CaptainName:  s.CaptainName(),
		ClanName:     s.ClanName(),
		ShipName:     s.ShipName(),
		Status:       string(s.Status()),
		ReviewedBy:   s.ReviewedBy(),
		ReviewReason: s.ReviewReason(),
		ReviewedAt:   s.ReviewedAt(),
		CreatedAt:    s.CreatedAt(),
	}
}

func ToCaptainsCodeDTO(c *captainscode.CaptainsCode) CaptainsCodeDTO {
	return CaptainsCodeDTO{
		Code:          c.Code(),
		BattleID:      c.BattleID(),
		Description:   c.Description(),
		IsActive:      c.IsActive(),
		MaxUsage:      c.MaxUsage(),
		UsageCount:    c.UsageCount(),
		RemainingUses: c.RemainingUses(),
		ExpiresAt:     c.ExpiresAt(),
		CreatedBy:     c.CreatedBy(),
		CreatedAt:     c.CreatedAt(),
	}
}

// CountActive counts PENDING and APPROVED screening signups
func CountActive(signups []ScreeningSignupDTO) int {
	n := 0
	for _, s := range signups {
		if shared.ReviewStatus(s.Status).IsActive() {
			n++
		}
	}
	return n
}
