package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticCatalog_ShipLookupIsCaseInsensitive(t *testing.T) {
	cat := NewStaticCatalog()

	ship, ok := cat.Ship("  victory ")
	require.True(t, ok)
	assert.Equal(t, "Victory", ship.Name)
	assert.Equal(t, FirstRate, ship.Rate)
	assert.Equal(t, 250, ship.BR)

	_, ok = cat.Ship("Flying Dutchman")
	assert.False(t, ok)
}

func TestStaticCatalog_ShipsOrderedByBRDescending(t *testing.T) {
	ships := NewStaticCatalog().Ships()
	require.NotEmpty(t, ships)
	for i := 1; i < len(ships); i++ {
		assert.GreaterOrEqual(t, ships[i-1].BR, ships[i].BR)
	}
}

func TestStaticCatalog_ShallowWaterAdmitsOnlySmallShips(t *testing.T) {
	cat := NewStaticCatalog()

	for _, ship := range cat.ShipsForWater(WaterTypeShallow) {
		assert.Contains(t, []Rate{SixthRate, SeventhRate, Unrated}, ship.Rate, ship.Name)
	}
	assert.Len(t, cat.ShipsForWater(WaterTypeDeep), len(cat.Ships()))

	victory, _ := cat.Ship("Victory")
	mercury, _ := cat.Ship("Mercury")
	assert.False(t, cat.AllowedInWater(victory, WaterTypeShallow))
	assert.True(t, cat.AllowedInWater(mercury, WaterTypeShallow))
}

func TestParseRate(t *testing.T) {
	cases := map[string]Rate{
		"4th Rate": FourthRate,
		"4th":      FourthRate,
		"4":        FourthRate,
		"1st rate": FirstRate,
		"Unrated":  Unrated,
	}
	for input, want := range cases {
		got, ok := ParseRate(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}

	_, ok := ParseRate("9th Rate")
	assert.False(t, ok)
}

func TestStaticCatalog_RateTokensAreNotShips(t *testing.T) {
	cat := NewStaticCatalog()
	assert.True(t, cat.IsRateToken("5th Rate"))
	assert.False(t, cat.IsRateToken("Surprise"))
	assert.True(t, cat.IsNation("great britain"))
	assert.False(t, cat.IsNation("Atlantis"))
}

func TestParseWaterType(t *testing.T) {
	w, err := ParseWaterType("DeepWater")
	require.NoError(t, err)
	assert.Equal(t, WaterTypeDeep, w)

	w, err = ParseWaterType("shallow_water")
	require.NoError(t, err)
	assert.Equal(t, WaterTypeShallow, w)

	_, err = ParseWaterType("lake")
	assert.Error(t, err)
}
