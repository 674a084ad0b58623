package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// GormBattleRepository implements BattleRepository using GORM
type GormBattleRepository struct {
	db *gorm.DB
}

// NewGormBattleRepository creates a new GORM battle repository
func NewGormBattleRepository(db *gorm.DB) *GormBattleRepository {
	return &GormBattleRepository{db: db}
}

// Create persists a new battle
func (r *GormBattleRepository) Create(ctx context.Context, b *battle.PortBattle) error {
	model := battleToModel(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

// FindByID retrieves a battle by id
func (r *GormBattleRepository) FindByID(ctx context.Context, id string) (*battle.PortBattle, error) {
	var model PortBattleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err, "battle", id, nil)
	}
	return modelToBattle(&model), nil
}

// List returns one page of battles ordered by battle start, then id
func (r *GormBattleRepository) List(ctx context.Context, opts battle.ListOptions) ([]*battle.PortBattle, error) {
	query := r.db.WithContext(ctx).Model(&PortBattleModel{})
	if opts.Start != nil {
		query = query.Where("battle_start_time >= ?", opts.Start.UTC())
	}
	if opts.End != nil {
		query = query.Where("battle_start_time <= ?", opts.End.UTC())
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []PortBattleModel
	if err := query.Order("battle_start_time ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, unavailable(err)
	}

	battles := make([]*battle.PortBattle, 0, len(models))
	for i := range models {
		battles = append(battles, modelToBattle(&models[i]))
	}
	return battles, nil
}

// UpdateDetails persists edited details. The battle row is locked first so a
// concurrent role write cannot raise a setup total past the new limit or slip
// in a ship the new water type refuses.
func (r *GormBattleRepository) UpdateDetails(ctx context.Context, b *battle.PortBattle, admitShip battle.ShipGuard) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockBattle(tx, b.ID()); err != nil {
			return err
		}

		var highest int
		if err := tx.Model(&FleetSetupModel{}).
			Where("battle_id = ?", b.ID()).
			Select("COALESCE(MAX(br_total), 0)").
			Scan(&highest).Error; err != nil {
			return err
		}
		if highest > b.BRLimit() {
			return shared.NewBudgetExceededError(b.BRLimit(), highest, 0)
		}

		if admitShip != nil {
			var ships []string
			if err := tx.Model(&FleetRoleModel{}).
				Joins("JOIN fleet_setups ON fleet_setups.id = fleet_roles.setup_id").
				Where("fleet_setups.battle_id = ?", b.ID()).
				Distinct().
				Order("fleet_roles.ship_name").
				Pluck("fleet_roles.ship_name", &ships).Error; err != nil {
				return err
			}
			for _, ship := range ships {
				if err := admitShip(ship); err != nil {
					return err
				}
			}
		}

		m := battleToModel(b)
		result := tx.Model(&PortBattleModel{}).
			Where("id = ? AND status = ?", b.ID(), string(battle.StatusPlanned)).
			Updates(map[string]interface{}{
				"port_name":               m.PortName,
				"meetup_time":             m.MeetupTime,
				"battle_start_time":       m.BattleStartTime,
				"water_type":              m.WaterType,
				"meetup_location":         m.MeetupLocation,
				"br_limit":                m.BRLimit,
				"nation":                  m.Nation,
				"battle_commander":        m.BattleCommander,
				"screening_commander":     m.ScreeningCommander,
				"reinforcement_commander": m.ReinforcementCommander,
				"updated_at":              m.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewConflictError(shared.CodeInvalidTransition,
				fmt.Sprintf("battle %s is no longer planned", b.ID()))
		}
		return nil
	})
	return translate(err, "battle", b.ID(), nil)
}

// UpdateStatus is a compare-and-swap on the status column
func (r *GormBattleRepository) UpdateStatus(ctx context.Context, id string, from, to battle.Status, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&PortBattleModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return unavailable(result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return shared.NewInvalidTransitionError(string(current.Status()), string(to))
}

// lockBattle reads the battle row FOR UPDATE. sqlite ignores the locking
// clause; its single writer serializes transactions anyway.
func lockBattle(tx *gorm.DB, id string) (*PortBattleModel, error) {
	var model PortBattleModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&model).Error
	if err != nil {
		return nil, translate(err, "battle", id, nil)
	}
	return &model, nil
}

func battleToModel(b *battle.PortBattle) *PortBattleModel {
	d := b.Details()
	return &PortBattleModel{
		ID:                     b.ID(),
		PortName:               d.PortName,
		MeetupTime:             d.MeetupTime.UTC(),
		BattleStartTime:        d.BattleStartTime.UTC(),
		WaterType:              string(d.WaterType),
		MeetupLocation:         d.MeetupLocation,
		BRLimit:                d.BRLimit,
		Nation:                 d.Nation,
		BattleCommander:        d.Commanders.Battle,
		ScreeningCommander:     d.Commanders.Screening,
		ReinforcementCommander: d.Commanders.Reinforcement,
		Status:                 string(b.Status()),
		CreatorID:              b.CreatorID(),
		CreatedAt:              b.CreatedAt().UTC(),
		UpdatedAt:              b.UpdatedAt().UTC(),
	}
}

func modelToBattle(m *PortBattleModel) *battle.PortBattle {
	return battle.ReconstructPortBattle(
		m.ID,
		battle.Details{
			PortName:        m.PortName,
			MeetupTime:      m.MeetupTime.UTC(),
			BattleStartTime: m.BattleStartTime.UTC(),
			WaterType:       catalog.WaterType(m.WaterType),
			MeetupLocation:  m.MeetupLocation,
			BRLimit:         m.BRLimit,
			Nation:          m.Nation,
			Commanders: battle.Commanders{
				Battle:        m.BattleCommander,
				Screening:     m.ScreeningCommander,
				Reinforcement: m.ReinforcementCommander,
			},
		},
		battle.Status(m.Status),
		m.CreatorID,
		m.CreatedAt.UTC(),
		m.UpdatedAt.UTC(),
	)
}
