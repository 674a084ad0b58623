package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// GormFleetRepository implements FleetRepository using GORM
type GormFleetRepository struct {
	db *gorm.DB
}

// NewGormFleetRepository creates a new GORM fleet repository
func NewGormFleetRepository(db *gorm.DB) *GormFleetRepository {
	return &GormFleetRepository{db: db}
}

// AppendSetup persists setup with the next free setup order of its battle
func (r *GormFleetRepository) AppendSetup(ctx context.Context, setup *fleet.FleetSetup) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockBattle(tx, setup.BattleID()); err != nil {
			return err
		}

		var highest int
		if err := tx.Model(&FleetSetupModel{}).
			Where("battle_id = ?", setup.BattleID()).
			Select("COALESCE(MAX(setup_order), 0)").
			Scan(&highest).Error; err != nil {
			return err
		}
		setup.AssignOrder(highest + 1)

		return tx.Create(setupToModel(setup)).Error
	})
	return translate(err, "fleet setup", setup.ID(),
		shared.NewConflictError(shared.CodeOrderTaken, "setup order already taken; retry"))
}

// FindSetup retrieves a setup by id
func (r *GormFleetRepository) FindSetup(ctx context.Context, id string) (*fleet.FleetSetup, error) {
	var model FleetSetupModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err, "fleet setup", id, nil)
	}
	return modelToSetup(&model), nil
}

// ListSetups returns the setups of a battle in setup order
func (r *GormFleetRepository) ListSetups(ctx context.Context, battleID string) ([]*fleet.FleetSetup, error) {
	var models []FleetSetupModel
	if err := r.db.WithContext(ctx).
		Where("battle_id = ?", battleID).
		Order("setup_order ASC").
		Find(&models).Error; err != nil {
		return nil, unavailable(err)
	}

	setups := make([]*fleet.FleetSetup, 0, len(models))
	for i := range models {
		setups = append(setups, modelToSetup(&models[i]))
	}
	return setups, nil
}

// ActivateSetup deactivates every sibling and activates setupID in one transaction
func (r *GormFleetRepository) ActivateSetup(ctx context.Context, battleID, setupID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockBattle(tx, battleID); err != nil {
			return err
		}

		if err := tx.Model(&FleetSetupModel{}).
			Where("battle_id = ? AND is_active = ? AND id <> ?", battleID, true, setupID).
			Update("is_active", false).Error; err != nil {
			return err
		}

		result := tx.Model(&FleetSetupModel{}).
			Where("id = ? AND battle_id = ?", setupID, battleID).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("fleet setup", setupID)
		}
		return nil
	})
	return translate(err, "fleet setup", setupID,
		shared.NewConflictError(shared.CodeActiveSetupConflict, "another setup was activated concurrently; retry"))
}

// AddRole inserts role and raises its setup's BR total in one transaction
func (r *GormFleetRepository) AddRole(ctx context.Context, role *fleet.FleetRole) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		limit, err := lockSetupBattle(tx, role.SetupID())
		if err != nil {
			return err
		}

		if role.RoleOrder() == 0 {
			var highest int
			if err := tx.Model(&FleetRoleModel{}).
				Where("setup_id = ?", role.SetupID()).
				Select("COALESCE(MAX(role_order), 0)").
				Scan(&highest).Error; err != nil {
				return err
			}
			role.AssignOrder(highest + 1)
		}

		if err := reserveBR(tx, role.SetupID(), role.BRValue(), limit); err != nil {
			return err
		}
		return tx.Create(roleToModel(role)).Error
	})
	return translate(err, "fleet role", role.ID(),
		shared.NewConflictError(shared.CodeOrderTaken, fmt.Sprintf("role order %d is already taken", role.RoleOrder())))
}

// ChangeRoleShip swaps the ship of a role under the same budget rule
func (r *GormFleetRepository) ChangeRoleShip(ctx context.Context, roleID, shipName string, brValue int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role FleetRoleModel
		if err := tx.Where("id = ?", roleID).First(&role).Error; err != nil {
			return translate(err, "fleet role", roleID, nil)
		}
		limit, err := lockSetupBattle(tx, role.SetupID)
		if err != nil {
			return err
		}

		if err := reserveBR(tx, role.SetupID, brValue-role.BRValue, limit); err != nil {
			return err
		}
		return tx.Model(&FleetRoleModel{}).
			Where("id = ?", roleID).
			Updates(map[string]interface{}{"ship_name": shipName, "br_value": brValue}).Error
	})
	return translate(err, "fleet role", roleID, nil)
}

// RemoveRole denies the role's pending signups, deletes it unless an approved
// signup holds it, and releases its BR, all in one transaction
func (r *GormFleetRepository) RemoveRole(ctx context.Context, roleID, actorID, reason string, at time.Time) ([]string, error) {
	var deniedIDs []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role FleetRoleModel
		if err := tx.Where("id = ?", roleID).First(&role).Error; err != nil {
			return translate(err, "fleet role", roleID, nil)
		}
		if _, err := lockSetupBattle(tx, role.SetupID); err != nil {
			return err
		}

		var pending []SignupModel
		if err := tx.Where("role_id = ? AND status = ?", roleID, string(shared.ReviewStatusPending)).
			Find(&pending).Error; err != nil {
			return err
		}
		denied, err := denyPendingSignups(tx, pending, actorID, reason, at)
		if err != nil {
			return err
		}

		result := tx.Where("id = ? AND NOT EXISTS (?)", roleID,
			tx.Model(&SignupModel{}).Select("1").
				Where("role_id = ? AND status = ?", roleID, string(shared.ReviewStatusApproved)),
		).Delete(&FleetRoleModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewRoleHasApprovedSignupError(roleID)
		}

		if err := tx.Model(&FleetSetupModel{}).
			Where("id = ?", role.SetupID).
			Update("br_total", gorm.Expr("br_total - ?", role.BRValue)).Error; err != nil {
			return err
		}

		deniedIDs = make([]string, 0, len(denied))
		for _, s := range denied {
			deniedIDs = append(deniedIDs, s.ID())
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "fleet role", roleID, nil)
	}
	return deniedIDs, nil
}

// FindRole retrieves a role by id
func (r *GormFleetRepository) FindRole(ctx context.Context, id string) (*fleet.FleetRole, error) {
	var model FleetRoleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err, "fleet role", id, nil)
	}
	return modelToRole(&model), nil
}

// ListRoles returns the roles of a setup in role order
func (r *GormFleetRepository) ListRoles(ctx context.Context, setupID string) ([]*fleet.FleetRole, error) {
	var models []FleetRoleModel
	if err := r.db.WithContext(ctx).
		Where("setup_id = ?", setupID).
		Order("role_order ASC").
		Find(&models).Error; err != nil {
		return nil, unavailable(err)
	}

	roles := make([]*fleet.FleetRole, 0, len(models))
	for i := range models {
		roles = append(roles, modelToRole(&models[i]))
	}
	return roles, nil
}

// lockSetupBattle locks the parent battle of a setup and returns its BR limit
func lockSetupBattle(tx *gorm.DB, setupID string) (int, error) {
	var setup FleetSetupModel
	if err := tx.Where("id = ?", setupID).First(&setup).Error; err != nil {
		return 0, translate(err, "fleet setup", setupID, nil)
	}
	b, err := lockBattle(tx, setup.BattleID)
	if err != nil {
		return 0, err
	}
	return b.BRLimit, nil
}

// reserveBR adds delta to a setup's BR total only if the result stays within
// limit. The conditional update is the authority; the follow-up read only
// builds the error.
func reserveBR(tx *gorm.DB, setupID string, delta, limit int) error {
	result := tx.Model(&FleetSetupModel{}).
		Where("id = ? AND br_total + ? <= ?", setupID, delta, limit).
		Update("br_total", gorm.Expr("br_total + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var current FleetSetupModel
	if err := tx.Select("br_total").Where("id = ?", setupID).First(&current).Error; err != nil {
		return err
	}
	return fleet.CheckBudget(limit, current.BRTotal, delta)
}

func setupToModel(s *fleet.FleetSetup) *FleetSetupModel {
	return &FleetSetupModel{
		ID:         s.ID(),
		BattleID:   s.BattleID(),
		Name:       s.Name(),
		IsActive:   s.IsActive(),
		SetupOrder: s.SetupOrder(),
		BRTotal:    s.BRTotal(),
		CreatedAt:  s.CreatedAt().UTC(),
	}
}

func modelToSetup(m *FleetSetupModel) *fleet.FleetSetup {
	return fleet.ReconstructFleetSetup(m.ID, m.BattleID, m.Name, m.IsActive, m.SetupOrder, m.BRTotal, m.CreatedAt.UTC())
}

func roleToModel(r *fleet.FleetRole) *FleetRoleModel {
	return &FleetRoleModel{
		ID:        r.ID(),
		SetupID:   r.SetupID(),
		RoleOrder: r.RoleOrder(),
		ShipName:  r.ShipName(),
		BRValue:   r.BRValue(),
	}
}

func modelToRole(m *FleetRoleModel) *fleet.FleetRole {
	return fleet.ReconstructFleetRole(m.ID, m.SetupID, m.RoleOrder, m.ShipName, m.BRValue)
}
