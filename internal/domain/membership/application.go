package membership

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// Application is a membership application reviewed by an admin
type Application struct {
	shared.ReviewState

	id            string
	identityKey   string
	applicantName string
	answers       map[string]string
}

// NewApplication creates a PENDING application
func NewApplication(identityKey, applicantName string, answers map[string]string, now time.Time) (*Application, error) {
	identityKey = strings.TrimSpace(identityKey)
	applicantName = strings.TrimSpace(applicantName)

	var missing []string
	if identityKey == "" {
		missing = append(missing, "identityKey")
	}
	if applicantName == "" {
		missing = append(missing, "applicantName")
	}
	if len(missing) > 0 {
		return nil, shared.NewMultiValidationError(missing, "required")
	}

	copied := make(map[string]string, len(answers))
	for k, v := range answers {
		copied[k] = v
	}
	return &Application{
		ReviewState:   shared.NewReviewState(now),
		id:            shared.NewID(),
		identityKey:   identityKey,
		applicantName: applicantName,
		answers:       copied,
	}, nil
}

// ReconstructApplication rebuilds an application from persistence
func ReconstructApplication(id, identityKey, applicantName string, answers map[string]string, state shared.ReviewState) *Application {
	return &Application{
		ReviewState:   state,
		id:            id,
		identityKey:   identityKey,
		applicantName: applicantName,
		answers:       answers,
	}
}

func (a *Application) ID() string                 { return a.id }
func (a *Application) IdentityKey() string        { return a.identityKey }
func (a *Application) ApplicantName() string      { return a.applicantName }
func (a *Application) Answers() map[string]string { return a.answers }

// Review applies an admin decision. Vouches never trigger this automatically.
func (a *Application) Review(decision shared.Decision, actorID, reason string, now time.Time) error {
	return a.ReviewState.Review("application", a.id, decision, actorID, reason, now)
}

// VouchType is a reviewer's stance on an application
type VouchType string

const (
	VouchTypeVouch   VouchType = "VOUCH"
	VouchTypeConcern VouchType = "CONCERN"
)

// ParseVouchType accepts VOUCH/CONCERN in any case
func ParseVouchType(s string) (VouchType, error) {
	switch VouchType(strings.ToUpper(strings.TrimSpace(s))) {
	case VouchTypeVouch:
		return VouchTypeVouch, nil
	case VouchTypeConcern:
		return VouchTypeConcern, nil
	}
	return "", shared.NewValidationError("vouchType", fmt.Sprintf("must be VOUCH or CONCERN, got %q", s))
}

// Vouch is advisory reviewer input on an application
type Vouch struct {
	id            string
	applicationID string
	reviewerID    string
	vouchType     VouchType
	comments      string
	createdAt     time.Time
}

// NewVouch creates a vouch by reviewerID
func NewVouch(applicationID, reviewerID string, vouchType VouchType, comments string, now time.Time) (*Vouch, error) {
	if reviewerID == "" {
		return nil, shared.NewUnauthorizedError("vouching requires an authenticated identity")
	}
	if applicationID == "" {
		return nil, shared.NewValidationError("applicationId", "required")
	}
	return &Vouch{
		id:            shared.NewID(),
		applicationID: applicationID,
		reviewerID:    reviewerID,
		vouchType:     vouchType,
		comments:      strings.TrimSpace(comments),
		createdAt:     now,
	}, nil
}

// ReconstructVouch rebuilds a vouch from persistence
func ReconstructVouch(id, applicationID, reviewerID string, vouchType VouchType, comments string, createdAt time.Time) *Vouch {
	return &Vouch{
		id:            id,
		applicationID: applicationID,
		reviewerID:    reviewerID,
		vouchType:     vouchType,
		comments:      comments,
		createdAt:     createdAt,
	}
}

func (v *Vouch) ID() string            { return v.id }
func (v *Vouch) ApplicationID() string { return v.applicationID }
func (v *Vouch) ReviewerID() string    { return v.reviewerID }
func (v *Vouch) Type() VouchType       { return v.vouchType }
func (v *Vouch) Comments() string      { return v.comments }
func (v *Vouch) CreatedAt() time.Time  { return v.createdAt }

// Tally counts vouches and concerns
type Tally struct {
	Vouches  int
	Concerns int
}

// TallyVouches summarizes vouches for display
func TallyVouches(vouches []*Vouch) Tally {
	var t Tally
	for _, v := range vouches {
		switch v.Type() {
		case VouchTypeVouch:
			t.Vouches++
		case VouchTypeConcern:
			t.Concerns++
		}
	}
	return t
}
