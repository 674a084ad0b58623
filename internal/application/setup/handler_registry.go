package setup

import (
	"reflect"

	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	battleCommands "github.com/andrescamacho/portbattle-go/internal/application/battle/commands"
	battleQueries "github.com/andrescamacho/portbattle-go/internal/application/battle/queries"
	codeCommands "github.com/andrescamacho/portbattle-go/internal/application/captainscode/commands"
	codeQueries "github.com/andrescamacho/portbattle-go/internal/application/captainscode/queries"
	fleetCommands "github.com/andrescamacho/portbattle-go/internal/application/fleet/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	membershipCommands "github.com/andrescamacho/portbattle-go/internal/application/membership/commands"
	membershipQueries "github.com/andrescamacho/portbattle-go/internal/application/membership/queries"
	screeningCommands "github.com/andrescamacho/portbattle-go/internal/application/screening/commands"
	signupCommands "github.com/andrescamacho/portbattle-go/internal/application/signup/commands"
	signupQueries "github.com/andrescamacho/portbattle-go/internal/application/signup/queries"
	"github.com/andrescamacho/portbattle-go/internal/domain/battle"
	"github.com/andrescamacho/portbattle-go/internal/domain/captainscode"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/fleet"
	"github.com/andrescamacho/portbattle-go/internal/domain/membership"
	"github.com/andrescamacho/portbattle-go/internal/domain/screening"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/domain/signup"
)

// Repositories groups the storage ports every handler draws from
type Repositories struct {
	Battles      battle.BattleRepository
	Fleets       fleet.FleetRepository
	Signups      signup.SignupRepository
	Codes        captainscode.CaptainsCodeRepository
	Screening    screening.ScreeningRepository
	Cooldowns    membership.CooldownRepository
	Applications membership.ApplicationRepository
}

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	repos               Repositories
	catalog             catalog.Catalog
	checker             auth.CapabilityChecker
	notifier            shared.Notifier
	clock               shared.Clock
	defaultCooldownDays int
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	repos Repositories,
	cat catalog.Catalog,
	checker auth.CapabilityChecker,
	notifier shared.Notifier,
	clock shared.Clock,
	defaultCooldownDays int,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	if cat == nil {
		cat = catalog.NewStaticCatalog()
	}

	return &HandlerRegistry{
		repos:               repos,
		catalog:             cat,
		checker:             checker,
		notifier:            notifier,
		clock:               clock,
		defaultCooldownDays: defaultCooldownDays,
	}
}

type registration struct {
	request interface{}
	handler mediator.RequestHandler
}

func register(m mediator.Mediator, regs []registration) error {
	for _, reg := range regs {
		if err := m.Register(reflect.TypeOf(reg.request), reg.handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterBattleHandlers registers battle and fleet composition handlers
//
// This method registers:
//   - CreateBattle, UpdateBattle, TransitionStatus commands
//   - ListBattles, GetBattle, Calendar queries (with degraded fallback)
//   - AddFleetSetup, ActivateFleetSetup, AddRole, ChangeRoleShip, RemoveRole commands
func (r *HandlerRegistry) RegisterBattleHandlers(m mediator.Mediator) error {
	repos := r.repos
	return register(m, []registration{
		{&battleCommands.CreateBattleCommand{}, battleCommands.NewCreateBattleHandler(repos.Battles, r.checker, r.clock)},
		{&battleCommands.UpdateBattleCommand{}, battleCommands.NewUpdateBattleHandler(repos.Battles, repos.Fleets, r.catalog, r.checker, r.clock)},
		{&battleCommands.TransitionStatusCommand{}, battleCommands.NewTransitionStatusHandler(repos.Battles, r.checker, r.clock)},

		{&battleQueries.ListBattlesQuery{}, battleQueries.NewListBattlesHandler(repos.Battles)},
		{&battleQueries.CalendarQuery{}, battleQueries.NewCalendarHandler(repos.Battles)},
		{&battleQueries.GetBattleQuery{}, battleQueries.NewGetBattleHandler(repos.Battles, repos.Fleets, repos.Signups, repos.Screening, r.checker)},

		{&fleetCommands.AddFleetSetupCommand{}, fleetCommands.NewAddFleetSetupHandler(repos.Battles, repos.Fleets, r.checker, r.clock)},
		{&fleetCommands.ActivateFleetSetupCommand{}, fleetCommands.NewActivateFleetSetupHandler(repos.Battles, repos.Fleets, r.checker)},
		{&fleetCommands.AddRoleCommand{}, fleetCommands.NewAddRoleHandler(repos.Battles, repos.Fleets, r.catalog, r.checker)},
		{&fleetCommands.ChangeRoleShipCommand{}, fleetCommands.NewChangeRoleShipHandler(repos.Battles, repos.Fleets, r.catalog, r.checker)},
		{&fleetCommands.RemoveRoleCommand{}, fleetCommands.NewRemoveRoleHandler(repos.Battles, repos.Fleets, repos.Signups, r.checker, r.notifier, r.clock)},
	})
}

// RegisterSignupHandlers registers role signup, captains code and screening handlers
func (r *HandlerRegistry) RegisterSignupHandlers(m mediator.Mediator) error {
	repos := r.repos
	return register(m, []registration{
		{&signupCommands.SubmitSignupCommand{}, signupCommands.NewSubmitSignupHandler(repos.Battles, repos.Fleets, repos.Signups, repos.Codes, r.checker, r.clock)},
		{&signupCommands.ReviewSignupCommand{}, signupCommands.NewReviewSignupHandler(repos.Signups, r.checker, r.notifier, r.clock)},
		{&signupQueries.ListSignupsQuery{}, signupQueries.NewListSignupsHandler(repos.Battles, repos.Fleets, repos.Signups, r.checker)},

		{&codeCommands.IssueCodeCommand{}, codeCommands.NewIssueCodeHandler(repos.Battles, repos.Codes, r.checker, r.clock)},
		{&codeCommands.DeactivateCodeCommand{}, codeCommands.NewDeactivateCodeHandler(repos.Codes, r.checker)},
		{&codeQueries.ValidateCodeQuery{}, codeQueries.NewValidateCodeHandler(repos.Codes, r.clock)},
		{&codeQueries.ListCodesQuery{}, codeQueries.NewListCodesHandler(repos.Codes, r.checker)},

		{&screeningCommands.CreateScreeningFleetCommand{}, screeningCommands.NewCreateScreeningFleetHandler(repos.Battles, repos.Screening, r.catalog, r.checker, r.clock)},
		{&screeningCommands.ScreeningSignUpCommand{}, screeningCommands.NewScreeningSignUpHandler(repos.Battles, repos.Screening, r.clock)},
		{&screeningCommands.ReviewScreeningSignupCommand{}, screeningCommands.NewReviewScreeningSignupHandler(repos.Screening, r.checker, r.notifier, r.clock)},
	})
}

// RegisterMembershipHandlers registers application, vouch and cooldown handlers
func (r *HandlerRegistry) RegisterMembershipHandlers(m mediator.Mediator) error {
	repos := r.repos
	return register(m, []registration{
		{&membershipCommands.SubmitApplicationCommand{}, membershipCommands.NewSubmitApplicationHandler(repos.Applications, repos.Cooldowns, r.checker, r.clock)},
		{&membershipCommands.RecordVouchCommand{}, membershipCommands.NewRecordVouchHandler(repos.Applications, r.clock)},
		{&membershipCommands.ReviewApplicationCommand{}, membershipCommands.NewReviewApplicationHandler(repos.Applications, r.checker, r.notifier, r.clock, r.defaultCooldownDays)},
		{&membershipCommands.ApplyCooldownCommand{}, membershipCommands.NewApplyCooldownHandler(repos.Cooldowns, r.checker, r.clock)},
		{&membershipCommands.OverrideCooldownCommand{}, membershipCommands.NewOverrideCooldownHandler(repos.Cooldowns, r.checker, r.clock)},

		{&membershipQueries.CheckEligibilityQuery{}, membershipQueries.NewCheckEligibilityHandler(repos.Cooldowns, r.clock)},
		{&membershipQueries.GetApplicationQuery{}, membershipQueries.NewGetApplicationHandler(repos.Applications)},
	})
}

// CreateConfiguredMediator creates a mediator with every handler registered.
// Middleware is added by the caller.
func (r *HandlerRegistry) CreateConfiguredMediator() (mediator.Mediator, error) {
	m := mediator.NewMediator()

	for _, registerFn := range []func(mediator.Mediator) error{
		r.RegisterBattleHandlers,
		r.RegisterSignupHandlers,
		r.RegisterMembershipHandlers,
	} {
		if err := registerFn(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}
