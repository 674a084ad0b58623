package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/domain/signup"
)

// GormSignupRepository implements SignupRepository using GORM
type GormSignupRepository struct {
	db *gorm.DB
}

// NewGormSignupRepository creates a new GORM signup repository
func NewGormSignupRepository(db *gorm.DB) *GormSignupRepository {
	return &GormSignupRepository{db: db}
}

// Submit inserts a PENDING signup, consuming one captains code use in the same
// transaction when the signup redeems a code
func (r *GormSignupRepository) Submit(ctx context.Context, s *signup.Signup) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.RedeemsCode() {
			if err := redeemCode(tx, s.CaptainsCode(), s.BattleID(), s.CreatedAt()); err != nil {
				return err
			}
		}
		return tx.Create(signupToModel(s)).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return r.claimConflict(ctx, s)
	}
	return translate(err, "signup", s.ID(), nil)
}

// redeemCode increments usage only while the code is still valid for battleID at now
func redeemCode(tx *gorm.DB, code, battleID string, now time.Time) error {
	now = now.UTC()
	result := tx.Model(&CaptainsCodeModel{}).
		Where("code = ? AND battle_id = ? AND is_active = ? AND expires_at > ? AND usage_count < max_usage",
			code, battleID, true, now).
		Update("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var model CaptainsCodeModel
	var current *captainscode.CaptainsCode
	err := tx.Where("code = ?", code).First(&model).Error
	switch {
	case err == nil:
		current = modelToCode(&model)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	outcome := captainscode.Evaluate(current, now, battleID)
	if outcome.IsValid() {
		outcome = captainscode.ResultExhausted
	}
	return outcome.Err(code)
}

// claimConflict tells the two signup uniqueness violations apart after the
// failed insert has rolled back
func (r *GormSignupRepository) claimConflict(ctx context.Context, s *signup.Signup) error {
	if s.UserID() != "" {
		held, err := r.FindActiveByCaptain(ctx, s.BattleID(), s.UserID())
		if err != nil {
			return err
		}
		if held != nil {
			return shared.NewDuplicateCaptainError(s.BattleID())
		}
	}
	return shared.NewRoleAlreadyClaimedError(s.RoleID())
}

// FindByID retrieves a signup by id
func (r *GormSignupRepository) FindByID(ctx context.Context, id string) (*signup.Signup, error) {
	var model SignupModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err, "signup", id, nil)
	}
	return modelToSignup(&model), nil
}

// ListByBattle returns every signup of a battle, oldest first
func (r *GormSignupRepository) ListByBattle(ctx context.Context, battleID string) ([]*signup.Signup, error) {
	return r.list(ctx, "battle_id = ?", battleID)
}

// ListActiveByRole returns PENDING and APPROVED signups of a role
func (r *GormSignupRepository) ListActiveByRole(ctx context.Context, roleID string) ([]*signup.Signup, error) {
	return r.list(ctx, "role_id = ? AND status <> ?", roleID, string(shared.ReviewStatusDenied))
}

// FindActiveByCaptain returns the captain's active signup in a battle, or nil
func (r *GormSignupRepository) FindActiveByCaptain(ctx context.Context, battleID, userID string) (*signup.Signup, error) {
	var model SignupModel
	err := r.db.WithContext(ctx).
		Where("battle_id = ? AND user_id = ? AND status <> ?", battleID, userID, string(shared.ReviewStatusDenied)).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return modelToSignup(&model), nil
}

// Review persists the decision applied to s. Approving denies every other
// pending signup of the same role in the same transaction.
func (r *GormSignupRepository) Review(ctx context.Context, s *signup.Signup) (*signup.ReviewOutcome, error) {
	outcome := &signup.ReviewOutcome{Signup: s}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := persistReview(tx, &SignupModel{}, "signup", s.ID(), s); err != nil {
			return err
		}
		if s.Status() != shared.ReviewStatusApproved {
			return nil
		}

		var siblings []SignupModel
		if err := tx.Where("role_id = ? AND status = ? AND id <> ?",
			s.RoleID(), string(shared.ReviewStatusPending), s.ID()).
			Find(&siblings).Error; err != nil {
			return err
		}
		denied, err := denyPendingSignups(tx, siblings, s.ReviewedBy(), signup.AutoDeniedReason, *s.ReviewedAt())
		if err != nil {
			return err
		}
		outcome.AutoDenied = denied
		return nil
	})
	if err != nil {
		return nil, translate(err, "signup", s.ID(), nil)
	}
	return outcome, nil
}

// denyPendingSignups runs each pending row through the signup state machine
// and persists the denial
func denyPendingSignups(tx *gorm.DB, models []SignupModel, actorID, reason string, at time.Time) ([]*signup.Signup, error) {
	denied := make([]*signup.Signup, 0, len(models))
	for i := range models {
		s := modelToSignup(&models[i])
		if err := s.Review(shared.DecisionDeny, actorID, reason, at); err != nil {
			return nil, err
		}
		if err := persistReview(tx, &SignupModel{}, "signup", s.ID(), s); err != nil {
			return nil, err
		}
		denied = append(denied, s)
	}
	return denied, nil
}

func (r *GormSignupRepository) list(ctx context.Context, where string, args ...interface{}) ([]*signup.Signup, error) {
	var models []SignupModel
	if err := r.db.WithContext(ctx).
		Where(where, args...).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, unavailable(err)
	}

	signups := make([]*signup.Signup, 0, len(models))
	for i := range models {
		signups = append(signups, modelToSignup(&models[i]))
	}
	return signups, nil
}

func signupToModel(s *signup.Signup) *SignupModel {
	info := s.Info()
	return &SignupModel{
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
		OverrideBy:      s.OverrideBy(),
		ReviewColumns:   reviewColumnsOf(s),
	}
}

func modelToSignup(m *SignupModel) *signup.Signup {
	return signup.ReconstructSignup(
		m.ID, m.BattleID, m.RoleID, m.UserID, m.OverrideBy,
		signup.CaptainInfo{
			CaptainName:     m.CaptainName,
			ClanName:        m.ClanName,
			WillingToScreen: m.WillingToScreen,
			Comments:        m.Comments,
			ContactInfo:     m.ContactInfo,
			IsExternal:      m.IsExternal,
			CaptainsCode:    m.CaptainsCode,
		},
		m.ReviewColumns.state(),
	)
}
