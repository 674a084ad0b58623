package persistence

import (
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// reviewable is satisfied by every entity embedding shared.ReviewState
type reviewable interface {
	Status() shared.ReviewStatus
	ReviewedBy() string
	ReviewReason() string
	ReviewedAt() *time.Time
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

func reviewColumnsOf(r reviewable) ReviewColumns {
	return ReviewColumns{
		Status:       string(r.Status()),
		ReviewedBy:   r.ReviewedBy(),
		ReviewReason: r.ReviewReason(),
		ReviewedAt:   utcPtr(r.ReviewedAt()),
		CreatedAt:    r.CreatedAt().UTC(),
		UpdatedAt:    r.UpdatedAt().UTC(),
	}
}

func (c ReviewColumns) state() shared.ReviewState {
	return shared.RecoverReviewState(
		shared.ReviewStatus(c.Status),
		c.ReviewedBy,
		c.ReviewReason,
		utcPtr(c.ReviewedAt),
		c.CreatedAt.UTC(),
		c.UpdatedAt.UTC(),
	)
}

// persistReview writes the decision already applied to r onto row id of
// model's table, provided the row is still PENDING. Losing a race yields
// AlreadyReviewed; a missing row yields NotFound.
func persistReview(tx *gorm.DB, model interface{}, entity, id string, r reviewable) error {
	cols := reviewColumnsOf(r)
	result := tx.Model(model).
		Where("id = ? AND status = ?", id, string(shared.ReviewStatusPending)).
		Updates(map[string]interface{}{
			"status":        cols.Status,
			"reviewed_by":   cols.ReviewedBy,
			"review_reason": cols.ReviewReason,
			"reviewed_at":   cols.ReviewedAt,
			"updated_at":    cols.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var row struct{ Status string }
	if err := tx.Model(model).Select("status").Where("id = ?", id).Take(&row).Error; err != nil {
		return translate(err, entity, id, nil)
	}
	return shared.NewAlreadyReviewedError(entity, id, shared.ReviewStatus(row.Status))
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
