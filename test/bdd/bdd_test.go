package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/portbattle-go/test/bdd/steps"
	"github.com/andrescamacho/portbattle-go/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/fleet", "features/signup", "features/membership"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	world := steps.NewWorld()
	world.Register(sc)

	steps.InitializeFleetSteps(sc, world)
	steps.InitializeSignupSteps(sc, world)
	steps.InitializeMembershipSteps(sc, world)
}

func TestMain(m *testing.M) {
	// One migrated database for every scenario; tables are truncated between scenarios
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic("Failed to initialize shared test database: " + err.Error())
	}

	code := m.Run()
	helpers.CloseSharedTestDB()
	os.Exit(code)
}
