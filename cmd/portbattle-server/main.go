package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/adapters/grpc"
	api "github.com/andrescamacho/portbattle-go/internal/adapters/http"
	"github.com/andrescamacho/portbattle-go/internal/adapters/metrics"
	"github.com/andrescamacho/portbattle-go/internal/adapters/notify"
	"github.com/andrescamacho/portbattle-go/internal/adapters/persistence"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	battleQueries "github.com/andrescamacho/portbattle-go/internal/application/battle/queries"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/setup"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/config"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/database"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configFlag := flag.String("config", "", "Path to config file (defaults to ./config.yaml)")
	migrateFlag := flag.Bool("migrate", true, "Run schema migrations on startup")
	flag.Parse()

	fmt.Println("Port Battle Server v0.1.0")
	fmt.Println("=========================")

	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	if err := run(cfg, *migrateFlag); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg.Logging)

	// 1. Database. A failed connection is fatal; a store that drops later
	// degrades reads to mock data instead.
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	fmt.Println("Database connected")

	if migrate {
		if err := persistence.Migrate(db); err != nil {
			return err
		}
		fmt.Println("Schema migrated")
	}

	// 2. Metrics
	var commandCollector *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		commandCollector = metrics.NewCommandMetricsCollector()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}
		fmt.Printf("Metrics enabled at %s\n", cfg.Metrics.Path)
	}

	// 3. Notifications
	var notifier shared.Notifier = shared.NopNotifier{}
	if cfg.Notify.Enabled() {
		discord, err := notify.NewDiscordWebhookNotifier(cfg.Notify.WebhookID, cfg.Notify.WebhookToken,
			cfg.Notify.RatePerSecond, cfg.Notify.Burst, log.Default())
		if err != nil {
			return fmt.Errorf("failed to create Discord notifier: %w", err)
		}
		defer discord.Close()
		notifier = discord
		fmt.Println("Discord review notifications enabled")
	}

	// 4. Mediator
	checker := auth.NewConfigCapabilityChecker(cfg.Auth.AdminIDs, cfg.Auth.CreatorRoles)
	registry := setup.NewHandlerRegistry(persistence.NewRepositories(db), catalog.NewStaticCatalog(),
		checker, notifier, shared.NewRealClock(), cfg.Membership.DefaultCooldownDays)
	med, err := registry.CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	med.RegisterMiddleware(logging.Middleware(logger))
	if commandCollector != nil {
		med.RegisterMiddleware(metrics.PrometheusMiddleware(commandCollector))
	}

	if cfg.Metrics.Enabled {
		domainCollector := metrics.NewDomainMetricsCollector(battleStatusSource(med))
		if err := domainCollector.Register(); err != nil {
			return fmt.Errorf("failed to register domain metrics: %w", err)
		}
		metrics.SetGlobalDomainCollector(domainCollector)
		domainCollector.Start(ctx, time.Minute)
		defer domainCollector.Stop()
	}

	// 5. gRPC health
	errChan := make(chan error, 2)
	if cfg.GRPC.HealthAddress != "" {
		healthServer, err := grpc.NewHealthServer(cfg.GRPC.HealthAddress, pinger(db), cfg.GRPC.PingInterval)
		if err != nil {
			return err
		}
		go func() {
			if err := healthServer.Start(ctx); err != nil {
				errChan <- err
			}
		}()
	}

	// 6. REST API
	server := api.NewServer(med, catalog.NewStaticCatalog(), api.Options{
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		IdleTimeout:     cfg.HTTP.IdleTimeout,
		BodyLimit:       cfg.HTTP.BodyLimit,
		SignupRateLimit: cfg.HTTP.SignupRateLimit,
		JWTSecret:       cfg.Auth.JWTSecret,
		JWTIssuer:       cfg.Auth.Issuer,
		Registry:        metrics.GetRegistry(),
		MetricsPath:     cfg.Metrics.Path,
		Ping:            pinger(db),
		SlowThreshold:   time.Duration(cfg.Logging.SlowRequestMillis) * time.Millisecond,
	})
	if cfg.Auth.JWTSecret == "" {
		log.Printf("Warning: auth.jwt_secret is empty, every request is anonymous")
	}

	go func() {
		fmt.Printf("HTTP server listening on %s\n", cfg.HTTP.Address)
		if err := server.Listen(cfg.HTTP.Address); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	fmt.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: HTTP shutdown: %v", err)
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) logging.Logger {
	if cfg.Format == "json" {
		return logging.NewJSONLogger(log.New(os.Stdout, "", 0), cfg.Level)
	}
	return logging.NewStdLogger(log.New(os.Stdout, "", log.LstdFlags), cfg.Level)
}

func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}
}

// battleStatusSource counts battles per status through the ListBattles query,
// so the gauge reports mock data while the store is down
func battleStatusSource(m mediator.Mediator) metrics.BattleStatusSource {
	return func(ctx context.Context) (map[string]int, bool, error) {
		resp, err := mediator.Send[*battleQueries.ListBattlesResponse](ctx, m, &battleQueries.ListBattlesQuery{})
		if err != nil {
			return nil, false, err
		}
		counts := make(map[string]int)
		for _, b := range resp.Battles {
			counts[b.Status]++
		}
		return counts, resp.IsMockData, nil
	}
}
