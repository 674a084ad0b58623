package steps

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"

	codeCommands "github.com/andrescamacho/portbattle-go/internal/application/captainscode/commands"
	codeQueries "github.com/andrescamacho/portbattle-go/internal/application/captainscode/queries"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	signupCommands "github.com/andrescamacho/portbattle-go/internal/application/signup/commands"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

type signupContext struct {
	*World
	code      string
	statuses  map[string]string
	successes int
	failures  []error
}

// InitializeSignupSteps registers signup, review and captains code steps
func InitializeSignupSteps(sc *godog.ScenarioContext, w *World) {
	sx := &signupContext{World: w}

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		sx.code = ""
		sx.statuses = make(map[string]string)
		sx.successes = 0
		sx.failures = nil
		return ctx, nil
	})

	sc.Step(`^captain "([^"]*)" signs up for role "([^"]*)"$`, sx.captainSignsUp)
	sc.Step(`^captains "([^"]*)" and "([^"]*)" sign up for role "([^"]*)" at the same time$`, sx.captainsSignUpConcurrently)
	sc.Step(`^exactly one signup succeeds$`, sx.exactlyOneSignupSucceeds)
	sc.Step(`^the other signup fails with "([^"]*)"$`, sx.theOtherSignupFailsWith)
	sc.Step(`^the admin issues a captains code with max usage (\d+)$`, sx.theAdminIssuesACode)
	sc.Step(`^external captain "([^"]*)" signs up for role "([^"]*)" with the code$`, sx.externalCaptainSignsUp)
	sc.Step(`^the code usage count is (\d+)$`, sx.theCodeUsageCountIs)
	sc.Step(`^the admin (approves|denies) the signup of "([^"]*)"$`, sx.theAdminReviews)
	sc.Step(`^the signup of "([^"]*)" is "([^"]*)"$`, sx.theSignupIs)
}

func (sx *signupContext) submit(ctx context.Context, cmd *signupCommands.SubmitSignupCommand) error {
	resp, err := mediator.Send[*signupCommands.SubmitSignupResponse](ctx, sx.h.Mediator, cmd)
	if err != nil {
		return err
	}
	sx.signups[cmd.CaptainName] = resp.Signup.ID
	sx.statuses[cmd.CaptainName] = resp.Signup.Status
	return nil
}

func (sx *signupContext) captainSignsUp(captain, role string) error {
	roleID, err := sx.role(role)
	if err != nil {
		return err
	}
	sx.err = sx.submit(helpers.MemberContext(strings.ToLower(captain)), &signupCommands.SubmitSignupCommand{
		RoleID:      roleID,
		CaptainName: captain,
	})
	return nil
}

func (sx *signupContext) captainsSignUpConcurrently(first, second, role string) error {
	roleID, err := sx.role(role)
	if err != nil {
		return err
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	start := make(chan struct{})
	for _, captain := range []string{first, second} {
		wg.Add(1)
		go func(captain string) {
			defer wg.Done()
			<-start
			resp, err := mediator.Send[*signupCommands.SubmitSignupResponse](helpers.MemberContext(strings.ToLower(captain)), sx.h.Mediator,
				&signupCommands.SubmitSignupCommand{RoleID: roleID, CaptainName: captain})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				sx.failures = append(sx.failures, err)
				return
			}
			sx.successes++
			sx.signups[captain] = resp.Signup.ID
			sx.statuses[captain] = resp.Signup.Status
		}(captain)
	}
	close(start)
	wg.Wait()
	return nil
}

func (sx *signupContext) exactlyOneSignupSucceeds() error {
	if sx.successes != 1 {
		return fmt.Errorf("expected exactly one successful signup, got %d (failures: %v)", sx.successes, sx.failures)
	}
	return nil
}

func (sx *signupContext) theOtherSignupFailsWith(code string) error {
	if len(sx.failures) != 1 {
		return fmt.Errorf("expected one failed signup, got %d", len(sx.failures))
	}
	if got := shared.CodeOf(sx.failures[0]); got != code {
		return fmt.Errorf("expected %s, got %s (%v)", code, got, sx.failures[0])
	}
	return nil
}

func (sx *signupContext) theAdminIssuesACode(maxUsage int) error {
	resp, err := mediator.Send[*codeCommands.CodeResponse](helpers.AdminContext(), sx.h.Mediator,
		&codeCommands.IssueCodeCommand{BattleID: sx.battleID, MaxUsage: maxUsage, TTL: 24 * time.Hour, Description: "allied clan"})
	if err != nil {
		return fmt.Errorf("issue code: %w", err)
	}
	sx.code = resp.Code.Code
	return nil
}

func (sx *signupContext) externalCaptainSignsUp(captain, role string) error {
	roleID, err := sx.role(role)
	if err != nil {
		return err
	}
	sx.err = sx.submit(context.Background(), &signupCommands.SubmitSignupCommand{
		RoleID:       roleID,
		CaptainName:  captain,
		ClanName:     "Allies",
		ContactInfo:  "discord: " + strings.ToLower(captain),
		IsExternal:   true,
		CaptainsCode: sx.code,
	})
	return nil
}

func (sx *signupContext) theCodeUsageCountIs(expected int) error {
	resp, err := mediator.Send[*codeQueries.ListCodesResponse](helpers.AdminContext(), sx.h.Mediator,
		&codeQueries.ListCodesQuery{BattleID: sx.battleID})
	if err != nil {
		return err
	}
	for _, c := range resp.Codes {
		if c.Code == sx.code {
			if c.UsageCount != expected {
				return fmt.Errorf("expected usage count %d, got %d", expected, c.UsageCount)
			}
			return nil
		}
	}
	return fmt.Errorf("code %s not listed", sx.code)
}

func (sx *signupContext) theAdminReviews(verb, captain string) error {
	id, ok := sx.signups[captain]
	if !ok {
		return fmt.Errorf("no signup recorded for %s", captain)
	}
	decision := "approve"
	if verb == "denies" {
		decision = "deny"
	}
	resp, err := mediator.Send[*signupCommands.ReviewSignupResponse](helpers.AdminContext(), sx.h.Mediator,
		&signupCommands.ReviewSignupCommand{SignupID: id, Decision: decision, Reason: "fleet lead call"})
	sx.err = err
	if err == nil {
		sx.statuses[captain] = resp.Signup.Status
	}
	return nil
}

func (sx *signupContext) theSignupIs(captain, status string) error {
	got, ok := sx.statuses[captain]
	if !ok {
		return fmt.Errorf("no signup recorded for %s", captain)
	}
	if got != status {
		return fmt.Errorf("expected %s signup to be %s, got %s", captain, status, got)
	}
	return nil
}
