package gridstatus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homewatch/internal/models"
)

func writePeriodsFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid_periods.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPeriods(t *testing.T) {
	t.Parallel()

	path := writePeriodsFile(t, `
periods:
  - grid_on: "2023-01-10"
    grid_off: "2023-04-02"
  - grid_on: "2024-01-01"
`)
	periods, err := LoadPeriods(path)
	require.NoError(t, err)
	require.Len(t, periods, 2)

	assert.Equal(t, date("2023-01-10"), periods[0].GridOn)
	require.NotNil(t, periods[0].GridOff)
	assert.Equal(t, date("2023-04-02"), *periods[0].GridOff)
	assert.True(t, periods[1].Open())
}

func TestLoadPeriods_EmptyPath(t *testing.T) {
	t.Parallel()
	periods, err := LoadPeriods("")
	require.NoError(t, err)
	assert.Empty(t, periods)
}

func TestLoadPeriods_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"missing grid_on", "periods:\n  - grid_off: \"2023-04-02\"\n"},
		{"bad date format", "periods:\n  - grid_on: \"10.01.2023\"\n"},
		{"grid_off before grid_on", "periods:\n  - grid_on: \"2023-04-02\"\n    grid_off: \"2023-01-10\"\n"},
		{"open period not last", "periods:\n  - grid_on: \"2023-01-10\"\n  - grid_on: \"2024-01-01\"\n"},
		{"overlapping periods", "periods:\n  - grid_on: \"2023-01-10\"\n    grid_off: \"2023-06-01\"\n  - grid_on: \"2023-05-01\"\n    grid_off: \"2023-08-01\"\n"},
		{"not yaml", "periods: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadPeriods(writePeriodsFile(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestValidatePeriods_AllowsAdjacentRanges(t *testing.T) {
	t.Parallel()
	err := ValidatePeriods([]models.GridPeriod{
		{GridOn: date("2023-01-01"), GridOff: datePtr("2023-02-01")},
		{GridOn: date("2023-02-02"), GridOff: datePtr("2023-03-01")},
	})
	assert.NoError(t, err)
}
