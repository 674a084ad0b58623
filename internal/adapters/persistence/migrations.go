package persistence

import (
	"fmt"

	"gorm.io/gorm"
)

// Models lists every table owned by this package, in dependency order
func Models() []interface{} {
	return []interface{}{
		&PortBattleModel{},
		&FleetSetupModel{},
		&FleetRoleModel{},
		&SignupModel{},
		&CaptainsCodeModel{},
		&ScreeningFleetModel{},
		&ScreeningSignupModel{},
		&ApplicationCooldownModel{},
		&ApplicationModel{},
		&VouchModel{},
	}
}

// partialIndexes are the filtered unique indexes that carry the concurrency
// invariants. Both postgres and sqlite accept this syntax.
var partialIndexes = []string{
	// at most one active setup per battle
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_fleet_setups_active
		ON fleet_setups (battle_id) WHERE is_active`,

	// at most one PENDING or APPROVED signup per role
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_signups_role_claim
		ON signups (role_id) WHERE status <> 'DENIED'`,

	// at most one PENDING or APPROVED signup per authenticated captain per battle
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_signups_captain
		ON signups (battle_id, user_id) WHERE status <> 'DENIED' AND user_id <> ''`,

	// no duplicate active signup to the same screening fleet
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_screening_signups_captain
		ON screening_signups (fleet_id, user_id) WHERE status <> 'DENIED'`,

	// one pending application per identity
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_applications_pending
		ON membership_applications (identity_key) WHERE status = 'PENDING'`,
}

// Migrate creates or updates every table and the partial unique indexes
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
