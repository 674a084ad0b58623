package persistence

import (
	"time"
)

// PortBattleModel represents the port_battles table
type PortBattleModel struct {
	ID                     string    `gorm:"column:id;primaryKey"`
	PortName               string    `gorm:"column:port_name;not null"`
	MeetupTime             time.Time `gorm:"column:meetup_time;not null"`
	BattleStartTime        time.Time `gorm:"column:battle_start_time;not null;index:idx_port_battles_start"`
	WaterType              string    `gorm:"column:water_type;not null"`
	MeetupLocation         string    `gorm:"column:meetup_location"`
	BRLimit                int       `gorm:"column:br_limit;not null"`
	Nation                 string    `gorm:"column:nation"`
	BattleCommander        string    `gorm:"column:battle_commander"`
	ScreeningCommander     string    `gorm:"column:screening_commander"`
	ReinforcementCommander string    `gorm:"column:reinforcement_commander"`
	Status                 string    `gorm:"column:status;not null;default:'PLANNED'"`
	CreatorID              string    `gorm:"column:creator_id;not null"`
	CreatedAt              time.Time `gorm:"column:created_at;not null"`
	UpdatedAt              time.Time `gorm:"column:updated_at;not null"`
}

func (PortBattleModel) TableName() string {
	return "port_battles"
}

// FleetSetupModel represents the fleet_setups table.
// br_total is maintained by role writes so the budget can be enforced with a
// single conditional update.
type FleetSetupModel struct {
	ID         string           `gorm:"column:id;primaryKey"`
	BattleID   string           `gorm:"column:battle_id;not null;uniqueIndex:idx_fleet_setups_order,priority:1"`
	Battle     *PortBattleModel `gorm:"foreignKey:BattleID;references:ID;constraint:OnDelete:CASCADE;"`
	Name       string           `gorm:"column:name;not null"`
	IsActive   bool             `gorm:"column:is_active;not null;default:false"`
	SetupOrder int              `gorm:"column:setup_order;not null;uniqueIndex:idx_fleet_setups_order,priority:2"`
	BRTotal    int              `gorm:"column:br_total;not null;default:0"`
	CreatedAt  time.Time        `gorm:"column:created_at;not null"`
}

func (FleetSetupModel) TableName() string {
	return "fleet_setups"
}

// FleetRoleModel represents the fleet_roles table
type FleetRoleModel struct {
	ID        string           `gorm:"column:id;primaryKey"`
	SetupID   string           `gorm:"column:setup_id;not null;uniqueIndex:idx_fleet_roles_order,priority:1"`
	Setup     *FleetSetupModel `gorm:"foreignKey:SetupID;references:ID;constraint:OnDelete:CASCADE;"`
	RoleOrder int              `gorm:"column:role_order;not null;uniqueIndex:idx_fleet_roles_order,priority:2"`
	ShipName  string           `gorm:"column:ship_name;not null"`
	BRValue   int              `gorm:"column:br_value;not null"`
}

func (FleetRoleModel) TableName() string {
	return "fleet_roles"
}

// ReviewColumns are shared by every reviewable request table
type ReviewColumns struct {
	Status       string     `gorm:"column:status;not null;default:'PENDING'"`
	ReviewedBy   string     `gorm:"column:reviewed_by"`
	ReviewReason string     `gorm:"column:review_reason;type:text"`
	ReviewedAt   *time.Time `gorm:"column:reviewed_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;not null"`
}

// SignupModel represents the signups table. battle_id is copied from the role
// so the per-captain index can be declared on this table alone.
type SignupModel struct {
	ID              string `gorm:"column:id;primaryKey"`
	BattleID        string `gorm:"column:battle_id;not null;index:idx_signups_battle"`
	RoleID          string `gorm:"column:role_id;not null;index:idx_signups_role"`
	UserID          string `gorm:"column:user_id"` // empty for external signups
	CaptainName     string `gorm:"column:captain_name;not null"`
	ClanName        string `gorm:"column:clan_name"`
	WillingToScreen bool   `gorm:"column:willing_to_screen;not null;default:false"`
	Comments        string `gorm:"column:comments;type:text"`
	ContactInfo     string `gorm:"column:contact_info"`
	IsExternal      bool   `gorm:"column:is_external;not null;default:false"`
	CaptainsCode    string `gorm:"column:captains_code"`
	OverrideBy      string `gorm:"column:override_by"`

	ReviewColumns `gorm:"embedded"`
}

func (SignupModel) TableName() string {
	return "signups"
}

// CaptainsCodeModel represents the captains_codes table
type CaptainsCodeModel struct {
	Code        string    `gorm:"column:code;primaryKey"`
	BattleID    string    `gorm:"column:battle_id;not null;index:idx_captains_codes_battle"`
	Description string    `gorm:"column:description"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	MaxUsage    int       `gorm:"column:max_usage;not null"`
	UsageCount  int       `gorm:"column:usage_count;not null;default:0"`
	ExpiresAt   time.Time `gorm:"column:expires_at;not null"`
	CreatedBy   string    `gorm:"column:created_by;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (CaptainsCodeModel) TableName() string {
	return "captains_codes"
}

// ScreeningFleetModel represents the screening_fleets table
type ScreeningFleetModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	BattleID      string    `gorm:"column:battle_id;not null;index:idx_screening_fleets_battle"`
	Type          string    `gorm:"column:type;not null"`
	Observation   string    `gorm:"column:observation;type:text"`
	RequiredShips string    `gorm:"column:required_ships;type:text"` // JSON array as text
	Nation        string    `gorm:"column:nation"`
	Commander     string    `gorm:"column:commander"`
	ShipsRequired *int      `gorm:"column:ships_required"`
	CreatedBy     string    `gorm:"column:created_by;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (ScreeningFleetModel) TableName() string {
	return "screening_fleets"
}

// ScreeningSignupModel represents the screening_signups table
type ScreeningSignupModel struct {
	ID          string `gorm:"column:id;primaryKey"`
	FleetID     string `gorm:"column:fleet_id;not null;index:idx_screening_signups_fleet"`
	UserID      string `gorm:"column:user_id;not null"`
	CaptainName string `gorm:"column:captain_name;not null"`
	ClanName    string `gorm:"column:clan_name"`
	ShipName    string `gorm:"column:ship_name"`

	ReviewColumns `gorm:"embedded"`
}

func (ScreeningSignupModel) TableName() string {
	return "screening_signups"
}

// ApplicationCooldownModel represents the application_cooldowns table
type ApplicationCooldownModel struct {
	IdentityKey  string     `gorm:"column:identity_key;primaryKey"`
	CanReapplyAt time.Time  `gorm:"column:can_reapply_at;not null"`
	Reason       string     `gorm:"column:reason;type:text"`
	OverriddenBy string     `gorm:"column:overridden_by"`
	OverriddenAt *time.Time `gorm:"column:overridden_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;not null"`
}

func (ApplicationCooldownModel) TableName() string {
	return "application_cooldowns"
}

// ApplicationModel represents the membership_applications table
type ApplicationModel struct {
	ID            string `gorm:"column:id;primaryKey"`
	IdentityKey   string `gorm:"column:identity_key;not null;index:idx_applications_identity"`
	ApplicantName string `gorm:"column:applicant_name;not null"`
	Answers       string `gorm:"column:answers;type:text"` // JSON object as text

	ReviewColumns `gorm:"embedded"`
}

func (ApplicationModel) TableName() string {
	return "membership_applications"
}

// VouchModel represents the application_vouches table
type VouchModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	ApplicationID string    `gorm:"column:application_id;not null;uniqueIndex:idx_vouches_reviewer,priority:1"`
	ReviewerID    string    `gorm:"column:reviewer_id;not null;uniqueIndex:idx_vouches_reviewer,priority:2"`
	Type          string    `gorm:"column:type;not null"`
	Comments      string    `gorm:"column:comments;type:text"`
	CreatedAt     time.Time `gorm:"column:created_at;not null"`
}

func (VouchModel) TableName() string {
	return "application_vouches"
}
