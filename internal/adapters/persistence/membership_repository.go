package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// GormCooldownRepository implements CooldownRepository using GORM
type GormCooldownRepository struct {
	db *gorm.DB
}

// NewGormCooldownRepository creates a new GORM cooldown repository
func NewGormCooldownRepository(db *gorm.DB) *GormCooldownRepository {
	return &GormCooldownRepository{db: db}
}

// Find returns the cooldown for identityKey, or nil when none was ever applied
func (r *GormCooldownRepository) Find(ctx context.Context, identityKey string) (*membership.ApplicationCooldown, error) {
	var model ApplicationCooldownModel
	err := r.db.WithContext(ctx).Where("identity_key = ?", identityKey).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return modelToCooldown(&model), nil
}

// Upsert replaces any prior cooldown for the same identity
func (r *GormCooldownRepository) Upsert(ctx context.Context, c *membership.ApplicationCooldown) error {
	return upsertCooldown(r.db.WithContext(ctx), c)
}

func upsertCooldown(db *gorm.DB, c *membership.ApplicationCooldown) error {
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identity_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"can_reapply_at", "reason", "overridden_by", "overridden_at", "updated_at"}),
	}).Create(cooldownToModel(c)).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

// GormApplicationRepository implements ApplicationRepository using GORM
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewGormApplicationRepository creates a new GORM application repository
func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// Create persists a PENDING application
func (r *GormApplicationRepository) Create(ctx context.Context, a *membership.Application) error {
	model, err := applicationToModel(a)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Create(model).Error
	return translate(err, "application", a.ID(), shared.NewConflictError(shared.CodeApplicationPending,
		fmt.Sprintf("%s already has a pending application", a.IdentityKey())))
}

// FindByID retrieves an application by id
func (r *GormApplicationRepository) FindByID(ctx context.Context, id string) (*membership.Application, error) {
	var model ApplicationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err, "application", id, nil)
	}
	return modelToApplication(&model), nil
}

// AddVouch records a vouch; a second vouch by the same reviewer is a Conflict
func (r *GormApplicationRepository) AddVouch(ctx context.Context, v *membership.Vouch) error {
	err := r.db.WithContext(ctx).Create(&VouchModel{
		ID:            v.ID(),
		ApplicationID: v.ApplicationID(),
		ReviewerID:    v.ReviewerID(),
		Type:          string(v.Type()),
		Comments:      v.Comments(),
		CreatedAt:     v.CreatedAt().UTC(),
	}).Error
	return translate(err, "vouch", v.ID(), shared.NewDuplicateVouchError(v.ApplicationID()))
}

// ListVouches returns the vouches of an application, oldest first
func (r *GormApplicationRepository) ListVouches(ctx context.Context, applicationID string) ([]*membership.Vouch, error) {
	var models []VouchModel
	if err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, unavailable(err)
	}

	vouches := make([]*membership.Vouch, 0, len(models))
	for _, m := range models {
		vouches = append(vouches, membership.ReconstructVouch(
			m.ID, m.ApplicationID, m.ReviewerID, membership.VouchType(m.Type), m.Comments, m.CreatedAt.UTC()))
	}
	return vouches, nil
}

// Review persists the decision applied to a and upserts cooldown, if any, in
// the same transaction
func (r *GormApplicationRepository) Review(ctx context.Context, a *membership.Application, cooldown *membership.ApplicationCooldown) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persistReview(tx, &ApplicationModel{}, "application", a.ID(), a); err != nil {
			return err
		}
		if cooldown != nil {
			return upsertCooldown(tx, cooldown)
		}
		return nil
	})
	return translate(err, "application", a.ID(), nil)
}

func cooldownToModel(c *membership.ApplicationCooldown) *ApplicationCooldownModel {
	return &ApplicationCooldownModel{
		IdentityKey:  c.IdentityKey(),
		CanReapplyAt: c.CanReapplyAt().UTC(),
		Reason:       c.Reason(),
		OverriddenBy: c.OverriddenBy(),
		OverriddenAt: utcPtr(c.OverriddenAt()),
		UpdatedAt:    c.UpdatedAt().UTC(),
	}
}

func modelToCooldown(m *ApplicationCooldownModel) *membership.ApplicationCooldown {
	return membership.ReconstructApplicationCooldown(
		m.IdentityKey,
		m.CanReapplyAt.UTC(),
		m.Reason,
		m.OverriddenBy,
		utcPtr(m.OverriddenAt),
		m.UpdatedAt.UTC(),
	)
}

func applicationToModel(a *membership.Application) (*ApplicationModel, error) {
	answers, err := json.Marshal(a.Answers())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal answers: %w", err)
	}
	return &ApplicationModel{
		ID:            a.ID(),
		IdentityKey:   a.IdentityKey(),
		ApplicantName: a.ApplicantName(),
		Answers:       string(answers),
		ReviewColumns: reviewColumnsOf(a),
	}, nil
}

func modelToApplication(m *ApplicationModel) *membership.Application {
	answers := map[string]string{}
	if m.Answers != "" {
		if err := json.Unmarshal([]byte(m.Answers), &answers); err != nil {
			answers = map[string]string{}
		}
	}
	return membership.ReconstructApplication(m.ID, m.IdentityKey, m.ApplicantName, answers, m.ReviewColumns.state())
}
