package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/fleetassist/internal/roster"
)

func TestDrivers(t *testing.T) {
	ds, err := Drivers()
	require.NoError(t, err)
	require.Len(t, ds, 29)

	var counts roster.Counts
	for _, d := range ds {
		switch d.Status() {
		case roster.StatusAiFixable:
			counts.AiFixable++
		case roster.StatusManualFixRequired:
			counts.ManualFix++
		default:
			counts.Ready++
		}
	}
	assert.Equal(t, roster.Counts{AiFixable: 10, ManualFix: 12, Ready: 7}, counts)

	seen := map[string]bool{}
	for _, d := range ds {
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.DisplayID)
	}
}

func TestCatalogs(t *testing.T) {
	light := Catalog("light")
	require.Len(t, light, 4)
	assert.Equal(t, "Engine & Fluids", light[0].Name)
	assert.Equal(t, 16, ItemCount(light))

	heavy := Catalog("heavy")
	assert.Len(t, heavy, 5)

	specialized := Catalog("specialized")
	assert.Len(t, specialized, 4)

	assert.Nil(t, Catalog("hovercraft"))
}

func TestFleets(t *testing.T) {
	assert.Equal(t, []string{"Fleet A", "Fleet B", "Fleet C"}, Fleets)
}
