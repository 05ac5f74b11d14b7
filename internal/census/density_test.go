package census

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/census.report/internal/fsutil"
	"github.com/banshee-data/census.report/internal/testutil"
)

func readFixture(t *testing.T, name, content string) *RawTable {
	t.Helper()
	fsys := fsutil.NewMemoryFileSystem()
	fsys.WriteFile(name, []byte(content))
	table, err := ReadCSV(fsys, name)
	require.NoError(t, err)
	return table
}

func TestPreprocessDensity(t *testing.T) {
	records, err := PreprocessDensity(readFixture(t, "d.csv", testutil.DensityCSV))
	require.NoError(t, err)
	require.Len(t, records, 5)

	want := DensityRecord{
		Name:           "ENGLAND",
		Code:           "E92000001",
		Geography:      "Country",
		AreaSqKm:       130310,
		Population2011: 53107169,
		Population2022: 57106398,
		Density2011:    407.5,
		Density2022:    438.2,
		Extra:          map[string]string{"Notes": ""},
	}
	if diff := cmp.Diff(want, records[0]); diff != "" {
		t.Errorf("ENGLAND record mismatch (-want +got):\n%s", diff)
	}

	// rows pass through in input order, none dropped
	var names []string
	for _, r := range records {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"ENGLAND", "NORTHERN IRELAND", "SCOTLAND", "WALES", "LONDON"}, names)
	assert.Equal(t, "rounded", records[2].Extra["Notes"])
}

func TestPreprocessDensity_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing column",
			content: "Name,Code\nWALES,W1\n",
			wantErr: `missing column "Geography"`,
		},
		{
			name: "bad number",
			content: "Name,Code,Geography,Area (sq km),Estimated Population mid-2022,2022 people per sq. km,Estimated Population mid-2011,2011 people per sq. km\n" +
				"WALES,W1,Country,n/a,1,1,1,1\n",
			wantErr: "field area_sq_km",
		},
		{
			name: "duplicate name",
			content: "Name,Code,Geography,Area (sq km),Estimated Population mid-2022,2022 people per sq. km,Estimated Population mid-2011,2011 people per sq. km\n" +
				"WALES,W1,Country,1,1,1,1,1\nWALES,W2,Country,1,1,1,1,1\n",
			wantErr: `duplicate name "WALES"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PreprocessDensity(readFixture(t, "d.csv", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseNumberCells(t *testing.T) {
	n, err := parseIntCell(" 1,234,567 ")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), n)

	f, err := parseFloatCell("5,640.2")
	require.NoError(t, err)
	assert.InDelta(t, 5640.2, f, 1e-9)

	_, err = parseIntCell("12.5")
	assert.Error(t, err)
}
