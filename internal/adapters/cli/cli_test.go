package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/portbattle-go/internal/application/battle/dtos"
)

func TestRootCommandRegistersGroups(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"config", "migrate", "catalog", "battle", "code", "cooldown", "token", "health"} {
		cmd, _, err := root.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}

func TestTreeFormatter_FormatBattle(t *testing.T) {
	required := 2
	agg := &dtos.BattleAggregateDTO{
		Battle: dtos.BattleDTO{
			PortName:   "La Navasse",
			Status:     "PLANNED",
			WaterType:  "DEEP_WATER",
			BRLimit:    500,
			MeetupTime: time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC),
		},
		Setups: []dtos.SetupDTO{{
			Name:     "Main line",
			IsActive: true,
			BRTotal:  470,
			Roles: []dtos.RoleDTO{
				{RoleOrder: 1, ShipName: "Victory", BRValue: 250, Signups: []dtos.SignupDTO{
					{CaptainName: "Aubrey", ClanName: "HMS", Status: "APPROVED"},
				}},
				{RoleOrder: 2, ShipName: "Christian", BRValue: 220},
			},
		}},
		ScreeningFleets: []dtos.ScreeningFleetDTO{{
			Type:          "SCREENING",
			RequiredShips: []string{"Endymion"},
			ShipsRequired: &required,
		}},
	}

	out := NewTreeFormatter(false).FormatBattle(agg)

	assert.Contains(t, out, "La Navasse [PLANNED] DEEP_WATER, BR limit 500")
	assert.Contains(t, out, `├── Setup "Main line" *active*, BR 470/500`)
	assert.Contains(t, out, "│   ├── #1 Victory (BR 250)")
	assert.Contains(t, out, "│   │   └── APPROVED Aubrey [HMS]")
	assert.Contains(t, out, "│       └── (open)")
	assert.Contains(t, out, "└── Screening SCREENING [Endymion], ships 0/2")
}

func TestTreeFormatter_NilBattle(t *testing.T) {
	assert.Equal(t, "(no battle)", NewTreeFormatter(true).FormatBattle(nil))
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgres://pb:xxxxx@db:5432/portbattle", maskPassword("postgres://pb:secret@db:5432/portbattle"))
	assert.Equal(t, "postgres://db/portbattle", maskPassword("postgres://db/portbattle"))
}

func TestParseTimeFlag(t *testing.T) {
	got, err := parseTimeFlag("start", "2026-03-01")
	assert.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))

	got, err = parseTimeFlag("end", "")
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseTimeFlag("end", "next tuesday")
	assert.Error(t, err)
}
