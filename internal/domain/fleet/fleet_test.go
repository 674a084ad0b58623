package fleet

import (
	"errors"
	"testing"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/domain/catalog"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFleetSetup(t *testing.T) {
	now := time.Now()

	setup, err := NewFleetSetup("battle-1", "  Main Fleet ", now)
	require.NoError(t, err)
	assert.Equal(t, "Main Fleet", setup.Name())
	assert.False(t, setup.IsActive())
	assert.Zero(t, setup.SetupOrder())

	_, err = NewFleetSetup("battle-1", "", now)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}

func TestNewFleetRole_CopiesBRFromShip(t *testing.T) {
	ship := catalog.Ship{Name: "Bellona", Rate: catalog.ThirdRate, BR: 180}

	role, err := NewFleetRole("setup-1", 3, ship)

	require.NoError(t, err)
	assert.Equal(t, "Bellona", role.ShipName())
	assert.Equal(t, 180, role.BRValue())
	assert.Equal(t, 3, role.RoleOrder())
}

func TestCheckBudget_ReportsOverage(t *testing.T) {
	assert.NoError(t, CheckBudget(500, 480, 20))

	err := CheckBudget(500, 480, 30)

	var budget *shared.BudgetExceededError
	require.True(t, errors.As(err, &budget))
	assert.Equal(t, 10, budget.Overage)
	assert.Equal(t, 480, budget.Current)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
	assert.Equal(t, shared.CodeBudgetExceeded, shared.CodeOf(err))
}

func TestResolveShip(t *testing.T) {
	cat := catalog.NewStaticCatalog()

	ship, err := ResolveShip(cat, "mercury", catalog.WaterTypeShallow)
	require.NoError(t, err)
	assert.Equal(t, "Mercury", ship.Name)

	_, err = ResolveShip(cat, "Victory", catalog.WaterTypeShallow)
	assert.Equal(t, "SHIP_NOT_ALLOWED_IN_WATER", shared.CodeOf(err))

	_, err = ResolveShip(cat, "Black Pearl", catalog.WaterTypeDeep)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}
