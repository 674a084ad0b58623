package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

// World is the per-scenario state shared by every step file
type World struct {
	h *helpers.Harness

	battleID string
	setupID  string
	roles    map[string]string // label -> role id
	signups  map[string]string // captain -> signup id

	err error
}

func NewWorld() *World {
	return &World{}
}

// Register resets state before each scenario and adds the shared outcome steps
func (w *World) Register(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		if err := helpers.TruncateAllTables(); err != nil {
			return ctx, err
		}
		h, err := helpers.NewHarnessWithDB(helpers.SharedTestDB)
		if err != nil {
			return ctx, err
		}
		*w = World{
			h:       h,
			roles:   make(map[string]string),
			signups: make(map[string]string),
		}
		return ctx, nil
	})

	sc.Step(`^the request succeeds$`, w.theRequestSucceeds)
	sc.Step(`^the request fails with "([^"]*)"$`, w.theRequestFailsWith)
}

func (w *World) theRequestSucceeds() error {
	if w.err != nil {
		return fmt.Errorf("expected success, got %v", w.err)
	}
	return nil
}

func (w *World) theRequestFailsWith(code string) error {
	if w.err == nil {
		return fmt.Errorf("expected %s, got success", code)
	}
	if got := shared.CodeOf(w.err); got != code {
		return fmt.Errorf("expected %s, got %s (%v)", code, got, w.err)
	}
	return nil
}

func (w *World) role(label string) (string, error) {
	id, ok := w.roles[label]
	if !ok {
		return "", fmt.Errorf("unknown role %q", label)
	}
	return id, nil
}
