package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/adapters/persistence"
	"github.com/andrescamacho/portbattle-go/internal/application/auth"
	"github.com/andrescamacho/portbattle-go/internal/application/logging"
	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/application/setup"
	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/config"
	"github.com/andrescamacho/portbattle-go/internal/infrastructure/database"
)

// runtime is everything a command needs to send requests in-process
type runtime struct {
	cfg      *config.Config
	db       *gorm.DB
	mediator mediator.Mediator
	ctx      context.Context
}

// openRuntime loads config, connects to the database and builds the mediator.
// The returned context carries the resolved actor, if any.
func openRuntime() (*runtime, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	cleanup := func() { _ = database.Close(db) }

	checker := auth.NewConfigCapabilityChecker(cfg.Auth.AdminIDs, cfg.Auth.CreatorRoles)
	registry := setup.NewHandlerRegistry(persistence.NewRepositories(db), catalog.NewStaticCatalog(),
		checker, nil, nil, cfg.Membership.DefaultCooldownDays)
	m, err := registry.CreateConfiguredMediator()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to configure mediator: %w", err)
	}

	var out io.Writer = io.Discard
	if verbose {
		out = os.Stderr
	}
	m.RegisterMiddleware(logging.Middleware(logging.NewStdLogger(log.New(out, "", log.LstdFlags), "info")))

	ctx := context.Background()
	if id, err := resolveActor(); err != nil {
		cleanup()
		return nil, nil, err
	} else if id != "" {
		ctx = auth.WithIdentity(ctx, auth.Identity{UserID: id, DisplayName: id})
	}

	return &runtime{cfg: cfg, db: db, mediator: m, ctx: ctx}, cleanup, nil
}

// resolveActor resolves the acting user id.
// Priority: --actor flag > user config default. Empty means anonymous.
func resolveActor() (string, error) {
	if actor != "" {
		return actor, nil
	}
	userCfg, err := loadUserConfig()
	if err != nil {
		return "", err
	}
	return userCfg.DefaultActor, nil
}

// resolveBattle resolves the battle id from the flag, an argument or user config
func resolveBattle(args []string) (string, error) {
	if battleID != "" {
		return battleID, nil
	}
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	userCfg, err := loadUserConfig()
	if err != nil {
		return "", err
	}
	if userCfg.DefaultBattleID != "" {
		return userCfg.DefaultBattleID, nil
	}
	return "", fmt.Errorf("no battle specified: use --battle, or set a default with 'portbattle config set-battle'")
}

func loadUserConfig() (*config.UserConfig, error) {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	userCfg, err := handler.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}
	return userCfg, nil
}

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
