package persistence

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/domain/screening"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// GormScreeningRepository implements ScreeningRepository using GORM
type GormScreeningRepository struct {
	db *gorm.DB
}

// NewGormScreeningRepository creates a new GORM screening repository
func NewGormScreeningRepository(db *gorm.DB) *GormScreeningRepository {
	return &GormScreeningRepository{db: db}
}

// CreateFleet persists a screening fleet
func (r *GormScreeningRepository) CreateFleet(ctx context.Context, f *screening.ScreeningFleet) error {
	model, err := fleetToModel(f)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

// FindFleet retrieves a screening fleet by id
func (r *GormScreeningRepository) FindFleet(ctx context.Context, id string) (*screening.ScreeningFleet, error) {
	var model ScreeningFleetModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err, "screening fleet", id, nil)
	}
	return modelToFleet(&model), nil
}

// ListFleets returns the screening fleets of a battle in creation order
func (r *GormScreeningRepository) ListFleets(ctx context.Context, battleID string) ([]*screening.ScreeningFleet, error) {
	var models []ScreeningFleetModel
	if err := r.db.WithContext(ctx).
		Where("battle_id = ?", battleID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, unavailable(err)
	}

	fleets := make([]*screening.ScreeningFleet, 0, len(models))
	for i := range models {
		fleets = append(fleets, modelToFleet(&models[i]))
	}
	return fleets, nil
}

// CreateSignup inserts a PENDING screening signup
func (r *GormScreeningRepository) CreateSignup(ctx context.Context, s *screening.ScreeningSignup) error {
	err := r.db.WithContext(ctx).Create(screeningSignupToModel(s)).Error
	return translate(err, "screening signup", s.ID(), shared.NewDuplicateSignupError(s.FleetID()))
}

// FindSignup retrieves a screening signup by id
func (r *GormScreeningRepository) FindSignup(ctx context.Context, id string) (*screening.ScreeningSignup, error) {
	var model ScreeningSignupModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translate(err, "screening signup", id, nil)
	}
	return modelToScreeningSignup(&model), nil
}

// ListSignups returns the signups of a fleet, oldest first
func (r *GormScreeningRepository) ListSignups(ctx context.Context, fleetID string) ([]*screening.ScreeningSignup, error) {
	var models []ScreeningSignupModel
	if err := r.db.WithContext(ctx).
		Where("fleet_id = ?", fleetID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, unavailable(err)
	}

	signups := make([]*screening.ScreeningSignup, 0, len(models))
	for i := range models {
		signups = append(signups, modelToScreeningSignup(&models[i]))
	}
	return signups, nil
}

// CountActiveSignups counts PENDING and APPROVED signups of a fleet
func (r *GormScreeningRepository) CountActiveSignups(ctx context.Context, fleetID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&ScreeningSignupModel{}).
		Where("fleet_id = ? AND status <> ?", fleetID, string(shared.ReviewStatusDenied)).
		Count(&count).Error; err != nil {
		return 0, unavailable(err)
	}
	return int(count), nil
}

// ReviewSignup persists the decision applied to s
func (r *GormScreeningRepository) ReviewSignup(ctx context.Context, s *screening.ScreeningSignup) error {
	err := persistReview(r.db.WithContext(ctx), &ScreeningSignupModel{}, "screening signup", s.ID(), s)
	return translate(err, "screening signup", s.ID(), nil)
}

func fleetToModel(f *screening.ScreeningFleet) (*ScreeningFleetModel, error) {
	req := f.Requirements()
	ships, err := json.Marshal(req.RequiredShips)
	if err != nil {
		return nil, err
	}
	return &ScreeningFleetModel{
		ID:            f.ID(),
		BattleID:      f.BattleID(),
		Type:          string(req.Type),
		Observation:   req.Observation,
		RequiredShips: string(ships),
		Nation:        req.Nation,
		Commander:     req.Commander,
		ShipsRequired: req.ShipsRequired,
		CreatedBy:     f.CreatedBy(),
		CreatedAt:     f.CreatedAt().UTC(),
	}, nil
}

func modelToFleet(m *ScreeningFleetModel) *screening.ScreeningFleet {
	var ships []string
	if m.RequiredShips != "" {
		if err := json.Unmarshal([]byte(m.RequiredShips), &ships); err != nil {
			ships = nil
		}
	}
	return screening.ReconstructScreeningFleet(m.ID, m.BattleID, screening.Requirements{
		Type:          screening.FleetType(m.Type),
		Observation:   m.Observation,
		RequiredShips: ships,
		Nation:        m.Nation,
		Commander:     m.Commander,
		ShipsRequired: m.ShipsRequired,
	}, m.CreatedBy, m.CreatedAt.UTC())
}

func screeningSignupToModel(s *screening.ScreeningSignup) *ScreeningSignupModel {
	return &ScreeningSignupModel{
		ID:            s.ID(),
		FleetID:       s.FleetID(),
		UserID:        s.UserID(),
		CaptainName:   s.CaptainName(),
		ClanName:      s.ClanName(),
		ShipName:      s.ShipName(),
		ReviewColumns: reviewColumnsOf(s),
	}
}

func modelToScreeningSignup(m *ScreeningSignupModel) *screening.ScreeningSignup {
	return screening.ReconstructScreeningSignup(
		m.ID, m.FleetID, m.UserID, m.CaptainName, m.ClanName, m.ShipName,
		m.ReviewColumns.state(),
	)
}
