package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// GormCaptainsCodeRepository implements CaptainsCodeRepository using GORM
type GormCaptainsCodeRepository struct {
	db *gorm.DB
}

// NewGormCaptainsCodeRepository creates a new GORM captains code repository
func NewGormCaptainsCodeRepository(db *gorm.DB) *GormCaptainsCodeRepository {
	return &GormCaptainsCodeRepository{db: db}
}

// Create persists a new code; a collision on the code string is a Conflict
func (r *GormCaptainsCodeRepository) Create(ctx context.Context, c *captainscode.CaptainsCode) error {
	err := r.db.WithContext(ctx).Create(codeToModel(c)).Error
	return translate(err, "captains code", c.Code(),
		shared.NewConflictError("CODE_COLLISION", fmt.Sprintf("captains code %s already exists", c.Code())))
}

// FindByCode retrieves a code
func (r *GormCaptainsCodeRepository) FindByCode(ctx context.Context, code string) (*captainscode.CaptainsCode, error) {
	var model CaptainsCodeModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, translate(err, "captains code", code, nil)
	}
	return modelToCode(&model), nil
}

// ListByBattle returns the codes of a battle, newest first
func (r *GormCaptainsCodeRepository) ListByBattle(ctx context.Context, battleID string) ([]*captainscode.CaptainsCode, error) {
	var models []CaptainsCodeModel
	if err := r.db.WithContext(ctx).
		Where("battle_id = ?", battleID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, unavailable(err)
	}

	codes := make([]*captainscode.CaptainsCode, 0, len(models))
	for i := range models {
		codes = append(codes, modelToCode(&models[i]))
	}
	return codes, nil
}

// Deactivate revokes a code; deactivating twice is not an error
func (r *GormCaptainsCodeRepository) Deactivate(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Model(&CaptainsCodeModel{}).
		Where("code = ?", code).
		Update("is_active", false)
	if result.Error != nil {
		return unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError("captains code", code)
	}
	return nil
}

func codeToModel(c *captainscode.CaptainsCode) *CaptainsCodeModel {
	return &CaptainsCodeModel{
		Code:        c.Code(),
		BattleID:    c.BattleID(),
		Description: c.Description(),
		IsActive:    c.IsActive(),
		MaxUsage:    c.MaxUsage(),
		UsageCount:  c.UsageCount(),
		ExpiresAt:   c.ExpiresAt().UTC(),
		CreatedBy:   c.CreatedBy(),
		CreatedAt:   c.CreatedAt().UTC(),
	}
}

func modelToCode(m *CaptainsCodeModel) *captainscode.CaptainsCode {
	return captainscode.ReconstructCaptainsCode(
		m.Code,
		m.BattleID,
		m.Description,
		m.IsActive,
		m.MaxUsage,
		m.UsageCount,
		m.ExpiresAt.UTC(),
		m.CreatedBy,
		m.CreatedAt.UTC(),
	)
}
