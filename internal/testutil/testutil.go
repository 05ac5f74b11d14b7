// Package testutil provides shared test utilities and census fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/banshee-data/census.report/internal/fsutil"
)

// Fixture file names used by NewFixtureFS.
const (
	DensityFixture   = "MYE5_Table8.csv"
	AgeGenderFixture = "MYEB1_Table9.csv"
)

// DensityCSV is a small density table with the published headers and one
// extra column.
const DensityCSV = `Code,Name,Geography,Area (sq km),Estimated Population mid-2022,2022 people per sq. km,Estimated Population mid-2011,2011 people per sq. km,Notes
E92000001,ENGLAND,Country,130310,"57,106,398",438.2,53107169,407.5,
N92000002,NORTHERN IRELAND,Country,14000,1910543,136.5,1814318,129.6,
S92000003,SCOTLAND,Country,77911,5447700,69.9,5299900,68.0,rounded
W92000004,WALES,Country,20738,3131640,151.0,3063758,147.7,
E12000007,LONDON,Region,1572,8866180,5640.2,8204407,5219.1,
`

// FixtureLocations are the geographies present in the age/gender fixture.
var FixtureLocations = []string{"ENGLAND", "SCOTLAND", "WALES"}

// FixtureAges are the age labels present in the age/gender fixture.
var FixtureAges = []string{"0", "17", "18", "24", "25", "39", "40", "59", "60", "74", "75", "89", "90+"}

var fixtureBase = map[string]int64{"ENGLAND": 1000, "SCOTLAND": 100, "WALES": 50}

// FixturePopulation is the population the age/gender fixture stores for a
// row, so tests can derive expected totals independently of the code under test.
func FixturePopulation(name, sex, age string, year int) int64 {
	n := 0
	if age == "90+" {
		n = 90
	} else {
		fmt.Sscanf(age, "%d", &n)
	}
	pop := fixtureBase[name] + int64(n)*2
	if sex == "F" {
		pop++
	}
	if year == 2022 {
		pop += 10
	}
	return pop
}

// AgeGenderCSV renders the age/gender fixture table.
func AgeGenderCSV() string {
	var b strings.Builder
	b.WriteString("name,sex,age,population_2011,population_2022\n")
	for _, name := range FixtureLocations {
		for _, sex := range []string{"F", "M"} {
			// reverse age order so sorting is exercised
			for i := len(FixtureAges) - 1; i >= 0; i-- {
				age := FixtureAges[i]
				fmt.Fprintf(&b, "%s,%s,%s,%d,%d\n", name, sex, age,
					FixturePopulation(name, sex, age, 2011), FixturePopulation(name, sex, age, 2022))
			}
		}
	}
	return b.String()
}

// NewFixtureFS returns an in-memory filesystem holding both fixture tables.
func NewFixtureFS() *fsutil.MemoryFileSystem {
	m := fsutil.NewMemoryFileSystem()
	m.WriteFile(DensityFixture, []byte(DensityCSV))
	m.WriteFile(AgeGenderFixture, []byte(AgeGenderCSV()))
	return m
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
