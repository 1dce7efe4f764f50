package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuickScanReturnsExactlyEightControls(t *testing.T) {
	controls := QuickScan()
	require.Len(t, controls, 8)

	ids := make(map[string]bool)
	for _, c := range controls {
		ids[c.ID] = true
	}
	for _, want := range []string{"CC6.1", "CC6.2", "CC6.3", "CC7.2", "CC7.3", "CC8.1", "CC9.1", "A1.2"} {
		assert.True(t, ids[want], "quick scan missing %s", want)
	}
}

func TestAllControlsAreWellFormed(t *testing.T) {
	controls := All()
	require.NotEmpty(t, controls)
	assert.GreaterOrEqual(t, len(controls), 50)

	seen := make(map[string]bool)
	for _, c := range controls {
		assert.NotEmpty(t, c.ID)
		assert.NotEmpty(t, c.Category)
		assert.NotEmpty(t, c.Title)
		assert.NotEmpty(t, c.Description)
		assert.NotEmpty(t, c.CheckInstructions)
		assert.False(t, seen[c.ID], "duplicate control id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestForScanType(t *testing.T) {
	assert.Len(t, ForScanType(ScanQuick), 8)
	assert.Equal(t, len(All()), len(ForScanType(ScanFull)))
}

func TestParseScanType(t *testing.T) {
	assert.Equal(t, ScanFull, ParseScanType("full"))
	assert.Equal(t, ScanQuick, ParseScanType("quick"))
	// Unknown values normalize to quick
	assert.Equal(t, ScanQuick, ParseScanType("everything"))
	assert.Equal(t, ScanQuick, ParseScanType(""))
}

func TestByID(t *testing.T) {
	c, ok := ByID("CC6.1")
	require.True(t, ok)
	assert.Equal(t, "CC6.1", c.ID)
	assert.Equal(t, "Logical Access Security", c.Title)

	_, ok = ByID("ZZ9.9")
	assert.False(t, ok)
}

func TestCategoriesCoverEveryControl(t *testing.T) {
	total := 0
	for _, cat := range Categories() {
		assert.Equal(t, cat.Count, len(cat.ControlIDs))
		total += cat.Count
	}
	assert.Equal(t, len(All()), total)
}

func TestSummaryCounts(t *testing.T) {
	stats := Summary()
	assert.Equal(t, len(All()), stats.TotalControls)
	assert.Equal(t, 3, stats.Groups["availability"])
	assert.NotZero(t, stats.Groups["security"])
	assert.NotZero(t, stats.Groups["privacy"])
}
