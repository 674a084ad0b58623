// Package http exposes the port battle application over a JSON REST API.
package http

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/config"
)

// Options configures the REST server
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int

	// Submissions per minute per client IP; 0 disables limiting
	SignupRateLimit int

	// Token verification; an empty secret treats every caller as anonymous
	JWTSecret string
	JWTIssuer string

	// Registry backs /metrics when non-nil
	Registry    *prometheus.Registry
	MetricsPath string

	// Ping backs /health when non-nil
	Ping func(ctx context.Context) error

	// Access log destination (stdout when nil) and the latency above which
	// successful requests are logged
	AccessLog     io.Writer
	SlowThreshold time.Duration
}

// Server wires HTTP routes to mediator requests
type Server struct {
	app      *fiber.App
	mediator mediator.Mediator
	catalog  catalog.Catalog
	validate *config.Validator
	opts     Options
}

// NewServer builds the fiber app and registers every route
func NewServer(m mediator.Mediator, cat catalog.Catalog, opts Options) *Server {
	if opts.AccessLog == nil {
		opts.AccessLog = os.Stdout
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if cat == nil {
		cat = catalog.NewStaticCatalog()
	}

	s := &Server{
		mediator: m,
		catalog:  cat,
		validate: newValidator(),
		opts:     opts,
	}

	s.app = fiber.New(fiber.Config{
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		IdleTimeout:           opts.IdleTimeout,
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	s.app.Use(recover.New())
	s.app.Use(accessLogger(opts.AccessLog, opts.SlowThreshold))
	s.app.Use(identityMiddleware(opts.JWTSecret, opts.JWTIssuer))

	s.routes()
	return s
}

func (s *Server) routes() {
	app := s.app
	submit := rateLimit(s.opts.SignupRateLimit, time.Minute)

	app.Get("/health", s.health)
	if s.opts.Registry != nil {
		app.Get(s.opts.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(s.opts.Registry, promhttp.HandlerOpts{})))
	}

	app.Get("/catalog/ships", s.listShips)

	// Signup requests are registered before /battles/:id so "requests" is not read as an id
	app.Get("/battles/requests", s.listSignups)
	app.Post("/battles/requests", submit, s.submitSignup)
	app.Patch("/battles/requests", s.reviewSignup)

	app.Get("/battles", s.listBattles)
	app.Post("/battles", s.battleAction)
	app.Get("/battles/:id", s.getBattle)

	app.Post("/battles/:id/setups", s.addSetup)
	app.Post("/setups/:id/activate", s.activateSetup)
	app.Post("/setups/:id/roles", s.addRole)
	app.Patch("/roles/:id", s.changeRoleShip)
	app.Delete("/roles/:id", s.removeRole)

	app.Post("/battles/:id/codes", s.issueCode)
	app.Get("/battles/:id/codes", s.listCodes)
	app.Get("/codes/:code/validate", s.validateCode)
	app.Post("/codes/:code/deactivate", s.deactivateCode)

	app.Post("/battles/:id/screening", s.createScreeningFleet)
	app.Post("/screening/:id/signups", submit, s.screeningSignUp)
	app.Patch("/screening/signups/:id", s.reviewScreeningSignup)

	app.Post("/applications", submit, s.submitApplication)
	app.Post("/applications/vouch", s.recordVouch)
	app.Post("/applications/review", s.reviewApplication)
	app.Get("/applications/cooldowns/:identity", s.checkEligibility)
	app.Post("/applications/cooldowns", s.applyCooldown)
	app.Post("/applications/cooldowns/override", s.overrideCooldown)
	app.Get("/applications/:id", s.getApplication)
}

// App exposes the fiber app, mainly for app.Test in tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on address until Shutdown
func (s *Server) Listen(address string) error {
	return s.app.Listen(address)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) health(c *fiber.Ctx) error {
	if s.opts.Ping != nil {
		if err := s.opts.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// shipDTO is the wire form of a catalog ship
type shipDTO struct {
	Name string `json:"name"`
	Rate string `json:"rate"`
	BR   int    `json:"br"`
}

func (s *Server) listShips(c *fiber.Ctx) error {
	ships := s.catalog.Ships()
	if token := c.Query("rate"); token != "" {
		rate, ok := catalog.ParseRate(token)
		if !ok {
			return badRequest("rate", "unknown rate "+token)
		}
		ships = s.catalog.ShipsByRate(rate)
	}
	if water := c.Query("waterType"); water != "" {
		w, err := catalog.ParseWaterType(water)
		if err != nil {
			return badRequest("waterType", err.Error())
		}
		allowed := ships[:0:0]
		for _, ship := range ships {
			if s.catalog.AllowedInWater(ship, w) {
				allowed = append(allowed, ship)
			}
		}
		ships = allowed
	}

	out := make([]shipDTO, 0, len(ships))
	for _, ship := range ships {
		out = append(out, shipDTO{Name: ship.Name, Rate: ship.Rate.String(), BR: ship.BR})
	}
	return c.JSON(fiber.Map{"ships": out})
}
