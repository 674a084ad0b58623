package shared

import (
	"fmt"
	"strings"
	"time"
)

// ReviewStatus is the status of a reviewable request (role signup, screening signup,
// membership application)
type ReviewStatus string

const (
	// ReviewStatusPending indicates the request awaits an admin decision
	ReviewStatusPending ReviewStatus = "PENDING"

	// ReviewStatusApproved is terminal
	ReviewStatusApproved ReviewStatus = "APPROVED"

	// ReviewStatusDenied is terminal
	ReviewStatusDenied ReviewStatus = "DENIED"
)

// IsTerminal reports whether no further transition is allowed
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewStatusApproved || s == ReviewStatusDenied
}

// IsActive reports whether the request still occupies its target
func (s ReviewStatus) IsActive() bool {
	return s == ReviewStatusPending || s == ReviewStatusApproved
}

func (s ReviewStatus) String() string {
	return string(s)
}

// Decision is an admin verdict on a reviewable request
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

// ParseDecision accepts approve/deny and the approved/denied/reject spellings used by clients
func ParseDecision(s string) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve", "approved", "accept", "accepted":
		return DecisionApprove, nil
	case "deny", "denied", "reject", "rejected":
		return DecisionDeny, nil
	}
	return "", NewValidationError("decision", fmt.Sprintf("must be approve or deny, got %q", s))
}

// TargetStatus maps a decision onto the resulting terminal status
func (d Decision) TargetStatus() ReviewStatus {
	if d == DecisionApprove {
		return ReviewStatusApproved
	}
	return ReviewStatusDenied
}

// ReviewState manages the PENDING → APPROVED/DENIED transition shared by every
// reviewable request. Entities embed it by composition.
//
// Invariants:
// - exactly one transition out of PENDING
// - terminal states are immutable
type ReviewState struct {
	status     ReviewStatus
	reviewedBy string
	reason     string
	reviewedAt *time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

// NewReviewState creates a PENDING review state
func NewReviewState(now time.Time) ReviewState {
	return ReviewState{
		status:    ReviewStatusPending,
		createdAt: now,
		updatedAt: now,
	}
}

// RecoverReviewState restores the state from persisted data
func RecoverReviewState(
	status ReviewStatus,
	reviewedBy, reason string,
	reviewedAt *time.Time,
	createdAt, updatedAt time.Time,
) ReviewState {
	return ReviewState{
		status:     status,
		reviewedBy: reviewedBy,
		reason:     reason,
		reviewedAt: reviewedAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (s *ReviewState) Status() ReviewStatus   { return s.status }
func (s *ReviewState) ReviewedBy() string     { return s.reviewedBy }
func (s *ReviewState) ReviewReason() string   { return s.reason }
func (s *ReviewState) ReviewedAt() *time.Time { return s.reviewedAt }
func (s *ReviewState) CreatedAt() time.Time   { return s.createdAt }
func (s *ReviewState) UpdatedAt() time.Time   { return s.updatedAt }

// IsPending returns true while no decision has been made
func (s *ReviewState) IsPending() bool {
	return s.status == ReviewStatusPending
}

// Review applies a decision. entity and id only feed the error message.
func (s *ReviewState) Review(entity, id string, decision Decision, actorID, reason string, now time.Time) error {
	if s.status.IsTerminal() {
		return NewAlreadyReviewedError(entity, id, s.status)
	}
	if decision != DecisionApprove && decision != DecisionDeny {
		return NewValidationError("decision", fmt.Sprintf("unknown decision %q", decision))
	}

	s.status = decision.TargetStatus()
	s.reviewedBy = actorID
	s.reason = reason
	s.reviewedAt = &now
	s.updatedAt = now
	return nil
}
