// Package dtos holds the read models of membership applications and cooldowns.
package dtos

import (
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
)

// ApplicationDTO is a membership application with its vouch tally
type ApplicationDTO struct {
	ID            string            `json:"id"`
	IdentityKey   string            `json:"identityKey"`
	ApplicantName string            `json:"applicantName"`
	Answers       map[string]string `json:"answers"`
	Status        string            `json:"status"`
	ReviewedBy    string            `json:"reviewedBy,omitempty"`
	ReviewReason  string            `json:"reviewReason,omitempty"`
	ReviewedAt    *time.Time        `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	Vouches       int               `json:"vouches"`
	Concerns      int               `json:"concerns"`
	VouchEntries  []VouchDTO        `json:"vouchEntries,omitempty"`
}

// VouchDTO is one reviewer opinion
type VouchDTO struct {
	ID         string    `json:"id"`
	ReviewerID string    `json:"reviewerId"`
	Type       string    `json:"type"`
	Comments   string    `json:"comments,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CooldownDTO reports whether an identity may apply
type CooldownDTO struct {
	IdentityKey  string     `json:"identityKey"`
	Eligible     bool       `json:"eligible"`
	CanReapplyAt *time.Time `json:"canReapplyAt,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	OverriddenBy string     `json:"overriddenBy,omitempty"`
}

func ToApplicationDTO(a *membership.Application, vouches []*membership.Vouch) ApplicationDTO {
	tally := membership.TallyVouches(vouches)
	dto := ApplicationDTO{
		ID:            a.ID(),
		IdentityKey:   a.IdentityKey(),
		ApplicantName: a.ApplicantName(),
		Answers:       a.Answers(),
		Status:        string(a.Status()),
		ReviewedBy:    a.ReviewedBy(),
		ReviewReason:  a.ReviewReason(),
		ReviewedAt:    a.ReviewedAt(),
		CreatedAt:     a.CreatedAt(),
		Vouches:       tally.Vouches,
		Concerns:      tally.Concerns,
	}
	for _, v := range vouches {
		dto.VouchEntries = append(dto.VouchEntries, ToVouchDTO(v))
	}
	return dto
}

func ToVouchDTO(v *membership.Vouch) VouchDTO {
	return VouchDTO{
		ID:         v.ID(),
		ReviewerID: v.ReviewerID(),
		Type:       string(v.Type()),
		Comments:   v.Comments(),
		CreatedAt:  v.CreatedAt(),
	}
}

// ToCooldownDTO evaluates c at now; a nil cooldown is eligible
func ToCooldownDTO(identityKey string, c *membership.ApplicationCooldown, now time.Time) CooldownDTO {
	e := c.CheckEligibility(now)
	dto := CooldownDTO{IdentityKey: identityKey, Eligible: e.Eligible}
	if !e.Eligible {
		until := e.Until
		dto.CanReapplyAt = &until
		dto.Reason = e.Reason
	}
	if c != nil {
		dto.OverriddenBy = c.OverriddenBy()
	}
	return dto
}
