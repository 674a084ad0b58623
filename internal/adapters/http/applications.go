package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	membershipCommands "github.com/andrescamacho/portbattle-go/internal/application/membership/commands"
	membershipQueries "github.com/andrescamacho/portbattle-go/internal/application/membership/queries"
)

type submitApplicationRequest struct {
	// Admins may file on behalf of another identity
	IdentityKey   string            `json:"identityKey"`
	ApplicantName string            `json:"applicantName" validate:"required"`
	Answers       map[string]string `json:"answers"`
}

type vouchRequest struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	VouchType     string `json:"vouchType" validate:"required"`
	Comments      string `json:"comments"`
}

type reviewApplicationRequest struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	Decision      string `json:"decision" validate:"required"`
	Reason        string `json:"reason"`
	CooldownDays  *int   `json:"cooldownDays" validate:"omitempty,min=0"`
}

type applyCooldownRequest struct {
	IdentityKey string `json:"identityKey" validate:"required"`
	Days        int    `json:"days" validate:"required,gt=0"`
	Reason      string `json:"reason"`
}

// overrideRequest accepts the Discord id under either name
type overrideRequest struct {
	IdentityKey string `json:"identityKey" validate:"required_without=DiscordID"`
	DiscordID   string `json:"discordId" validate:"required_without=IdentityKey"`
}

func (r overrideRequest) key() string {
	if r.IdentityKey != "" {
		return r.IdentityKey
	}
	return r.DiscordID
}

func (s *Server) submitApplication(c *fiber.Ctx) error {
	var req submitApplicationRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*membershipCommands.ApplicationResponse](c.UserContext(), s.mediator,
		&membershipCommands.SubmitApplicationCommand{
			IdentityKey:   req.IdentityKey,
			ApplicantName: req.ApplicantName,
			Answers:       req.Answers,
		})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"application": resp.Application})
}

func (s *Server) getApplication(c *fiber.Ctx) error {
	resp, err := mediator.Send[*membershipQueries.ApplicationResponse](c.UserContext(), s.mediator,
		&membershipQueries.GetApplicationQuery{ApplicationID: c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"application": resp.Application})
}

func (s *Server) recordVouch(c *fiber.Ctx) error {
	var req vouchRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*membershipCommands.VouchResponse](c.UserContext(), s.mediator,
		&membershipCommands.RecordVouchCommand{ApplicationID: req.ApplicationID, Type: req.VouchType, Comments: req.Comments})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"vouch": resp.Vouch})
}

func (s *Server) reviewApplication(c *fiber.Ctx) error {
	var req reviewApplicationRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*membershipCommands.ReviewApplicationResponse](c.UserContext(), s.mediator,
		&membershipCommands.ReviewApplicationCommand{
			ApplicationID: req.ApplicationID,
			Decision:      req.Decision,
			Reason:        req.Reason,
			CooldownDays:  req.CooldownDays,
		})
	if err != nil {
		return err
	}
	body := fiber.Map{"application": resp.Application}
	if resp.Cooldown != nil {
		body["cooldown"] = resp.Cooldown
	}
	return c.JSON(body)
}

func (s *Server) checkEligibility(c *fiber.Ctx) error {
	resp, err := mediator.Send[*membershipQueries.CheckEligibilityResponse](c.UserContext(), s.mediator,
		&membershipQueries.CheckEligibilityQuery{IdentityKey: c.Params("identity")})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cooldown": resp.Cooldown})
}

func (s *Server) applyCooldown(c *fiber.Ctx) error {
	var req applyCooldownRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*membershipCommands.CooldownResponse](c.UserContext(), s.mediator,
		&membershipCommands.ApplyCooldownCommand{IdentityKey: req.IdentityKey, Days: req.Days, Reason: req.Reason})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"cooldown": resp.Cooldown})
}

func (s *Server) overrideCooldown(c *fiber.Ctx) error {
	var req overrideRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	resp, err := mediator.Send[*membershipCommands.CooldownResponse](c.UserContext(), s.mediator,
		&membershipCommands.OverrideCooldownCommand{IdentityKey: req.key()})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "cooldown": resp.Cooldown})
}
