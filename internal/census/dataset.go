package census

import (
	"fmt"
	"slices"
	"sync"

	"github.com/banshee-data/census.report/internal/fsutil"
	"github.com/banshee-data/census.report/internal/monitoring"
)

// Dataset is the preprocessed, read-only data context shared by every
// dashboard request. Its tables are never modified after construction, so
// concurrent readers need no locking.
type Dataset struct {
	density []DensityRecord
	detail  []AgeGenderDetail
	long    []AgeGenderLong

	densityLocations   []string
	ageGenderLocations []string
}

// NewDataset preprocesses both raw tables.
func NewDataset(raw *RawTables) (*Dataset, error) {
	density, err := PreprocessDensity(raw.Density)
	if err != nil {
		return nil, fmt.Errorf("preprocess density: %w", err)
	}
	detail, long, err := PreprocessAgeGender(raw.AgeGender)
	if err != nil {
		return nil, fmt.Errorf("preprocess age/gender: %w", err)
	}

	ds := &Dataset{
		density: density,
		detail:  detail,
		long:    long,
	}
	ds.densityLocations = uniqueSorted(len(density), func(i int) string { return density[i].Name })
	ds.ageGenderLocations = uniqueSorted(len(long), func(i int) string { return long[i].Name })

	monitoring.Logf("dataset ready: %d density rows, %d age/gender rows (%d long), %d+%d locations",
		len(density), len(detail), len(long), len(ds.densityLocations), len(ds.ageGenderLocations))
	return ds, nil
}

// Load reads and preprocesses both CSV files.
func Load(fsys fsutil.FileSystem, densityPath, ageGenderPath string) (*Dataset, error) {
	raw, err := LoadRaw(fsys, densityPath, ageGenderPath)
	if err != nil {
		return nil, err
	}
	return NewDataset(raw)
}

type loadKey struct{ density, ageGender string }

var (
	cacheMu sync.Mutex
	cache   = map[loadKey]*Dataset{}
)

// LoadCached is Load memoised per (densityPath, ageGenderPath) pair for the
// life of the process. Failed loads are not cached.
func LoadCached(fsys fsutil.FileSystem, densityPath, ageGenderPath string) (*Dataset, error) {
	k := loadKey{densityPath, ageGenderPath}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if ds, ok := cache[k]; ok {
		return ds, nil
	}
	ds, err := Load(fsys, densityPath, ageGenderPath)
	if err != nil {
		return nil, err
	}
	cache[k] = ds
	return ds, nil
}

// Density returns a copy of the density table in input order.
func (ds *Dataset) Density() []DensityRecord { return slices.Clone(ds.density) }

// AgeGenderDetail returns a copy of the detail table in input order.
func (ds *Dataset) AgeGenderDetail() []AgeGenderDetail { return slices.Clone(ds.detail) }

// AgeGenderLong returns a copy of the long-form table.
func (ds *Dataset) AgeGenderLong() []AgeGenderLong { return slices.Clone(ds.long) }

// DensityLocations lists the density geographies alphabetically.
func (ds *Dataset) DensityLocations() []string { return slices.Clone(ds.densityLocations) }

// AgeGenderLocations lists the age/gender geographies alphabetically.
func (ds *Dataset) AgeGenderLocations() []string { return slices.Clone(ds.ageGenderLocations) }

func uniqueSorted(n int, at func(int) string) []string {
	set := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		set[at(i)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
