package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	battleCommands "github.com/andrescamacho/portbattle-go/internal/application/battle/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	battleQueries "github.com/andrescamacho/portbattle-go/internal/application/battle/queries"
	fleetCommands "github.com/andrescamacho/portbattle-go/internal/application/fleet/commands"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
)

type battleActionRequest struct {
	Action string `json:"action" validate:"required,oneof=create transition update"`
}

type battleFields struct {
	PortName               string    `json:"portName" validate:"required"`
	MeetupTime             time.Time `json:"meetupTime"`
	BattleStartTime        time.Time `json:"battleStartTime"`
	WaterType              string    `json:"waterType" validate:"required"`
	MeetupLocation         string    `json:"meetupLocation"`
	BRLimit                int       `json:"brLimit" validate:"required,gt=0"`
	Nation                 string    `json:"nation"`
	BattleCommander        string    `json:"battleCommander"`
	ScreeningCommander     string    `json:"screeningCommander"`
	ReinforcementCommander string    `json:"reinforcementCommander"`
}

func (f battleFields) input() battleCommands.BattleInput {
	return battleCommands.BattleInput{
		PortName:               f.PortName,
		MeetupTime:             f.MeetupTime,
		BattleStartTime:        f.BattleStartTime,
		WaterType:              f.WaterType,
		MeetupLocation:         f.MeetupLocation,
		BRLimit:                f.BRLimit,
		Nation:                 f.Nation,
		BattleCommander:        f.BattleCommander,
		ScreeningCommander:     f.ScreeningCommander,
		ReinforcementCommander: f.ReinforcementCommander,
	}
}

type updateBattleRequest struct {
	BattleID string `json:"battleId" validate:"required"`
	battleFields
}

type transitionRequest struct {
	BattleID string `json:"battleId" validate:"required"`
	Status   string `json:"status" validate:"required"`
}

type setupRequest struct {
	Name string `json:"name" validate:"required"`
}

type roleRequest struct {
	ShipName  string `json:"shipName" validate:"required"`
	RoleOrder int    `json:"roleOrder" validate:"min=0"`
}

type changeShipRequest struct {
	ShipName string `json:"shipName" validate:"required"`
}

// window parses the optional RFC 3339 start/end query parameters
func window(c *fiber.Ctx) (start, end *time.Time, err error) {
	parse := func(name string) (*time.Time, error) {
		raw := c.Query(name)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, badRequest(name, "must be an RFC 3339 timestamp")
		}
		return &t, nil
	}
	if start, err = parse("start"); err != nil {
		return nil, nil, err
	}
	if end, err = parse("end"); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func (s *Server) listBattles(c *fiber.Ctx) error {
	start, end, err := window(c)
	if err != nil {
		return err
	}

	switch c.Query("action", "list") {
	case "list":
		resp, err := mediator.Send[*battleQueries.ListBattlesResponse](c.UserContext(), s.mediator,
			&battleQueries.ListBattlesQuery{Start: start, End: end})
		if err != nil {
			return err
		}
		battles := resp.Battles
		if battles == nil {
			battles = []dtos.BattleDTO{}
		}
		return c.JSON(fiber.Map{"battles": battles, "isMockData": resp.IsMockData})

	case "calendar":
		resp, err := mediator.Send[*battleQueries.CalendarResponse](c.UserContext(), s.mediator,
			&battleQueries.CalendarQuery{Start: start, End: end})
		if err != nil {
			return err
		}
		events := resp.Events
		if events == nil {
			events = []battleQueries.CalendarEventDTO{}
		}
		return c.JSON(fiber.Map{"events": events, "isMockData": resp.IsMockData})
	}
	return badRequest("action", "must be list or calendar")
}

func (s *Server) battleAction(c *fiber.Ctx) error {
	var action battleActionRequest
	if err := s.bind(c, &action); err != nil {
		return err
	}

	var request mediator.Request
	switch action.Action {
	case "create":
		var req battleFields
		if err := s.bind(c, &req); err != nil {
			return err
		}
		request = &battleCommands.CreateBattleCommand{BattleInput: req.input()}
	case "update":
		var req updateBattleRequest
		if err := s.bind(c, &req); err != nil {
			return err
		}
		request = &battleCommands.UpdateBattleCommand{BattleID: req.BattleID, BattleInput: req.input()}
	case "transition":
		var req transitionRequest
		if err := s.bind(c, &req); err != nil {
			return err
		}
		request = &battleCommands.TransitionStatusCommand{BattleID: req.BattleID, NewStatus: req.Status}
	}

	resp, err := mediator.Send[*battleCommands.BattleResponse](c.UserContext(), s.mediator, request)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"battle": resp.Battle})
}

func (s *Server) getBattle(c *fiber.Ctx) error {
	resp, err := mediator.Send[*dtos.BattleAggregateDTO](c.UserContext(), s.mediator,
		&battleQueries.GetBattleQuery{BattleID: c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) addSetup(c *fiber.Ctx) error {
	var req setupRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*fleetCommands.SetupResponse](c.UserContext(), s.mediator,
		&fleetCommands.AddFleetSetupCommand{BattleID: c.Params("id"), Name: req.Name})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"setup": resp.Setup})
}

func (s *Server) activateSetup(c *fiber.Ctx) error {
	resp, err := mediator.Send[*fleetCommands.SetupResponse](c.UserContext(), s.mediator,
		&fleetCommands.ActivateFleetSetupCommand{SetupID: c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"setup": resp.Setup})
}

func (s *Server) addRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*fleetCommands.RoleResponse](c.UserContext(), s.mediator,
		&fleetCommands.AddRoleCommand{SetupID: c.Params("id"), RoleOrder: req.RoleOrder, ShipName: req.ShipName})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"role": resp.Role, "brTotal": resp.BRTotal, "brLimit": resp.BRLimit})
}

func (s *Server) changeRoleShip(c *fiber.Ctx) error {
	var req changeShipRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*fleetCommands.RoleResponse](c.UserContext(), s.mediator,
		&fleetCommands.ChangeRoleShipCommand{RoleID: c.Params("id"), ShipName: req.ShipName})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"role": resp.Role, "brTotal": resp.BRTotal, "brLimit": resp.BRLimit})
}

func (s *Server) removeRole(c *fiber.Ctx) error {
	resp, err := mediator.Send[*fleetCommands.RemoveRoleResponse](c.UserContext(), s.mediator,
		&fleetCommands.RemoveRoleCommand{RoleID: c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "roleId": resp.RoleID})
}
