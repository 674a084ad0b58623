package persistence

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/application/setup"
)

// NewRepositories builds the full set of gorm-backed repositories over db
func NewRepositories(db *gorm.DB) setup.Repositories {
	return setup.Repositories{
		Battles:      NewGormBattleRepository(db),
		Fleets:       NewGormFleetRepository(db),
		Signups:      NewGormSignupRepository(db),
		Codes:        NewGormCaptainsCodeRepository(db),
		Screening:    NewGormScreeningRepository(db),
		Cooldowns:    NewGormCooldownRepository(db),
		Applications: NewGormApplicationRepository(db),
	}
}
