package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
	codeCommands "github.com/andrescamacho/portbattle-go/internal/application/captainscode/commands"
	codeQueries "github.com/andrescamacho/portbattle-go/internal/application/captainscode/queries"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	screeningCommands "github.com/andrescamacho/portbattle-go/internal/application/screening/commands"
	signupCommands "github.com/andrescamacho/portbattle-go/internal/application/signup/commands"
	signupQueries "github.com/andrescamacho/portbattle-go/internal/application/signup/queries"
)

type submitSignupRequest struct {
	RoleID          string `json:"roleId" validate:"required"`
	CaptainName     string `json:"captainName" validate:"required"`
	ClanName        string `json:"clanName"`
	WillingToScreen bool   `json:"willingToScreen"`
	Comments        string `json:"comments"`
	ContactInfo     string `json:"contactInfo"`
	IsExternal      bool   `json:"isExternalSignup"`
	CaptainsCode    string `json:"captainsCode"`
	AdminOverride   bool   `json:"adminOverride"`
}

type reviewRequest struct {
	RequestID string `json:"requestId" validate:"required"`
	Action    string `json:"action" validate:"required"`
	Reason    string `json:"reason"`
}

type issueCodeRequest struct {
	MaxUsage    int    `json:"maxUsage" validate:"required,gt=0"`
	TTLHours    int    `json:"ttlHours" validate:"required,gt=0"`
	Description string `json:"description"`
}

type screeningFleetRequest struct {
	Type          string   `json:"type" validate:"required"`
	Observation   string   `json:"observation"`
	RequiredShips []string `json:"requiredShips"`
	Nation        string   `json:"nation"`
	Commander     string   `json:"commander"`
	ShipsRequired *int     `json:"shipsRequired" validate:"omitempty,gt=0"`
}

type screeningSignUpRequest struct {
	CaptainName string `json:"captainName" validate:"required"`
	ClanName    string `json:"clanName"`
	ShipName    string `json:"shipName"`
}

type screeningReviewRequest struct {
	Action string `json:"action" validate:"required"`
	Reason string `json:"reason"`
}

func (s *Server) listSignups(c *fiber.Ctx) error {
	battleID := c.Query("portBattleId")
	if battleID == "" {
		return badRequest("portBattleId", "required")
	}
	resp, err := mediator.Send[*signupQueries.ListSignupsResponse](c.UserContext(), s.mediator,
		&signupQueries.ListSignupsQuery{BattleID: battleID})
	if err != nil {
		return err
	}
	requests := resp.Requests
	if requests == nil {
		requests = []dtos.SignupDTO{}
	}
	return c.JSON(fiber.Map{"requests": requests})
}

func (s *Server) submitSignup(c *fiber.Ctx) error {
	var req submitSignupRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*signupCommands.SubmitSignupResponse](c.UserContext(), s.mediator,
		&signupCommands.SubmitSignupCommand{
			RoleID:          req.RoleID,
			CaptainName:     req.CaptainName,
			ClanName:        req.ClanName,
			WillingToScreen: req.WillingToScreen,
			Comments:        req.Comments,
			ContactInfo:     req.ContactInfo,
			IsExternal:      req.IsExternal,
			CaptainsCode:    req.CaptainsCode,
			AdminOverride:   req.AdminOverride,
		})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "request": resp.Signup})
}

func (s *Server) reviewSignup(c *fiber.Ctx) error {
	var req reviewRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*signupCommands.ReviewSignupResponse](c.UserContext(), s.mediator,
		&signupCommands.ReviewSignupCommand{SignupID: req.RequestID, Decision: req.Action, Reason: req.Reason})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "request": resp.Signup, "autoDenied": resp.AutoDenied})
}

func (s *Server) issueCode(c *fiber.Ctx) error {
	var req issueCodeRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*codeCommands.CodeResponse](c.UserContext(), s.mediator,
		&codeCommands.IssueCodeCommand{
			BattleID:    c.Params("id"),
			MaxUsage:    req.MaxUsage,
			TTL:         time.Duration(req.TTLHours) * time.Hour,
			Description: req.Description,
		})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"code": resp.Code})
}

func (s *Server) listCodes(c *fiber.Ctx) error {
	resp, err := mediator.Send[*codeQueries.ListCodesResponse](c.UserContext(), s.mediator,
		&codeQueries.ListCodesQuery{BattleID: c.Params("id")})
	if err != nil {
		return err
	}
	codes := resp.Codes
	if codes == nil {
		codes = []dtos.CaptainsCodeDTO{}
	}
	return c.JSON(fiber.Map{"codes": codes})
}

func (s *Server) validateCode(c *fiber.Ctx) error {
	resp, err := mediator.Send[*codeQueries.ValidateCodeResponse](c.UserContext(), s.mediator,
		&codeQueries.ValidateCodeQuery{Code: c.Params("code"), BattleID: c.Query("battleId")})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"valid":         resp.Valid,
		"result":        resp.Result,
		"expiresAt":     resp.ExpiresAt,
		"remainingUses": resp.RemainingUses,
	})
}

func (s *Server) deactivateCode(c *fiber.Ctx) error {
	resp, err := mediator.Send[*codeCommands.CodeResponse](c.UserContext(), s.mediator,
		&codeCommands.DeactivateCodeCommand{Code: c.Params("code")})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"code": resp.Code})
}

func (s *Server) createScreeningFleet(c *fiber.Ctx) error {
	var req screeningFleetRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*screeningCommands.ScreeningFleetResponse](c.UserContext(), s.mediator,
		&screeningCommands.CreateScreeningFleetCommand{
			BattleID:      c.Params("id"),
			Type:          req.Type,
			Observation:   req.Observation,
			RequiredShips: req.RequiredShips,
			Nation:        req.Nation,
			Commander:     req.Commander,
			ShipsRequired: req.ShipsRequired,
		})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"screeningFleet": resp.Fleet})
}

func (s *Server) screeningSignUp(c *fiber.Ctx) error {
	var req screeningSignUpRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*screeningCommands.ScreeningSignUpResponse](c.UserContext(), s.mediator,
		&screeningCommands.ScreeningSignUpCommand{
			FleetID:     c.Params("id"),
			CaptainName: req.CaptainName,
			ClanName:    req.ClanName,
			ShipName:    req.ShipName,
		})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "signup": resp.Signup, "overCapacity": resp.OverCapacity})
}

func (s *Server) reviewScreeningSignup(c *fiber.Ctx) error {
	var req screeningReviewRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*screeningCommands.ScreeningSignupResponse](c.UserContext(), s.mediator,
		&screeningCommands.ReviewScreeningSignupCommand{SignupID: c.Params("id"), Decision: req.Action, Reason: req.Reason})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "signup": resp.Signup})
}
