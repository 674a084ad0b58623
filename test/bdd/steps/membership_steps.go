package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/membership/queries"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

type membershipContext struct {
	*World
	applications map[string]string // applicant -> application id
	deniedAt     time.Time
}

// InitializeMembershipSteps registers application and cooldown steps
func InitializeMembershipSteps(sc *godog.ScenarioContext, w *World) {
	mc := &membershipContext{World: w}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		mc.applications = make(map[string]string)
		mc.deniedAt = time.Time{}
		return ctx, nil
	})

	sc.Step(`^"([^"]*)" submits a membership application$`, mc.submitsAnApplication)
	sc.Step(`^the admin denies the application of "([^"]*)" with a cooldown of (\d+) days$`, mc.theAdminDenies)
	sc.Step(`^(\d+) days? pass(?:es)?$`, mc.daysPass)
	sc.Step(`^"([^"]*)" is not eligible until (\d+) days after the denial$`, mc.isNotEligibleUntil)
	sc.Step(`^"([^"]*)" is eligible to apply$`, mc.isEligible)
	sc.Step(`^a member tries to override the cooldown of "([^"]*)"$`, mc.aMemberOverrides)
	sc.Step(`^the admin overrides the cooldown of "([^"]*)"$`, mc.theAdminOverrides)
}

func (mc *membershipContext) submitsAnApplication(applicant string) error {
	resp, err := mediator.Send[*commands.ApplicationResponse](helpers.MemberContext(applicant), mc.h.Mediator,
		&commands.SubmitApplicationCommand{
			ApplicantName: applicant,
			Answers:       map[string]string{"experience": "two years in the Caribbean"},
		})
	mc.err = err
	if err == nil {
		mc.applications[applicant] = resp.Application.ID
	}
	return nil
}

func (mc *membershipContext) theAdminDenies(applicant string, days int) error {
	id, ok := mc.applications[applicant]
	if !ok {
		return fmt.Errorf("no application recorded for %s", applicant)
	}
	mc.deniedAt = mc.h.Clock.Now()
	_, err := mediator.Send[*commands.ReviewApplicationResponse](helpers.AdminContext(), mc.h.Mediator,
		&commands.ReviewApplicationCommand{ApplicationID: id, Decision: "deny", Reason: "not a fit yet", CooldownDays: &days})
	if err != nil {
		return fmt.Errorf("deny application: %w", err)
	}
	return nil
}

func (mc *membershipContext) daysPass(days int) error {
	mc.h.Clock.Advance(time.Duration(days) * 24 * time.Hour)
	return nil
}

func (mc *membershipContext) eligibility(applicant string) (*queries.CheckEligibilityResponse, error) {
	return mediator.Send[*queries.CheckEligibilityResponse](context.Background(), mc.h.Mediator,
		&queries.CheckEligibilityQuery{IdentityKey: applicant})
}

func (mc *membershipContext) isNotEligibleUntil(applicant string, days int) error {
	resp, err := mc.eligibility(applicant)
	if err != nil {
		return err
	}
	if resp.Cooldown.Eligible {
		return fmt.Errorf("expected %s to be on cooldown", applicant)
	}
	until := mc.deniedAt.AddDate(0, 0, days)
	if resp.Cooldown.CanReapplyAt == nil || !resp.Cooldown.CanReapplyAt.Equal(until) {
		return fmt.Errorf("expected reapply time %s, got %v", until, resp.Cooldown.CanReapplyAt)
	}

	// A blocked submission carries the same reapply time
	var cooldownErr *shared.CooldownActiveError
	if mc.err != nil && errors.As(mc.err, &cooldownErr) && !cooldownErr.CanReapplyAt.Equal(until) {
		return fmt.Errorf("cooldown error reports %s, want %s", cooldownErr.CanReapplyAt, until)
	}
	return nil
}

func (mc *membershipContext) isEligible(applicant string) error {
	resp, err := mc.eligibility(applicant)
	if err != nil {
		return err
	}
	if !resp.Cooldown.Eligible {
		return fmt.Errorf("expected %s to be eligible, reapply at %v", applicant, resp.Cooldown.CanReapplyAt)
	}
	return nil
}

func (mc *membershipContext) aMemberOverrides(applicant string) error {
	_, mc.err = mediator.Send[*commands.CooldownResponse](helpers.MemberContext("deckhand"), mc.h.Mediator,
		&commands.OverrideCooldownCommand{IdentityKey: applicant})
	return nil
}

func (mc *membershipContext) theAdminOverrides(applicant string) error {
	_, mc.err = mediator.Send[*commands.CooldownResponse](helpers.AdminContext(), mc.h.Mediator,
		&commands.OverrideCooldownCommand{IdentityKey: applicant})
	return nil
}
