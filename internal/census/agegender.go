package census

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Census years carried by the age/gender table.
const (
	Year2011 = 2011
	Year2022 = 2022
)

// Years lists the census years in selector order.
var Years = []int{Year2011, Year2022}

// AgeGenderDetail is one (geography, sex, single year of age) row.
type AgeGenderDetail struct {
	Name           string  `json:"name"`
	Sex            Sex     `json:"sex"`
	Age            string  `json:"age"`
	AgeNumeric     int     `json:"age_numeric"`
	AgeBand        AgeBand `json:"age_band"`
	Population2011 int64   `json:"population_2011"`
	Population2022 int64   `json:"population_2022"`
}

// Population returns the population for a census year.
func (d AgeGenderDetail) Population(year int) (int64, bool) {
	switch year {
	case Year2011:
		return d.Population2011, true
	case Year2022:
		return d.Population2022, true
	}
	return 0, false
}

// AgeGenderLong is a detail row unpivoted to a single census year.
type AgeGenderLong struct {
	Name       string  `json:"name"`
	Sex        Sex     `json:"sex"`
	Age        string  `json:"age"`
	AgeNumeric int     `json:"age_numeric"`
	AgeBand    AgeBand `json:"age_band"`
	Year       int     `json:"year"`
	Population int64   `json:"population"`
}

// AgeGenderColumns are the headers the age/gender table must provide.
var AgeGenderColumns = []string{"name", "sex", "age", "population_2011", "population_2022"}

// PreprocessAgeGender derives numeric ages and bands, then unpivots the two
// population columns into one long row per census year. Long rows are
// ordered by (name, year, sex, numeric age). An unparseable age aborts the
// whole table with an *AgeParseError.
func PreprocessAgeGender(raw *RawTable) ([]AgeGenderDetail, []AgeGenderLong, error) {
	idx := make(map[string]int, len(AgeGenderColumns))
	for _, c := range AgeGenderColumns {
		i, ok := raw.Column(c)
		if !ok {
			return nil, nil, fmt.Errorf("age/gender table %s: missing column %q", raw.Path, c)
		}
		idx[c] = i
	}

	type key struct {
		name string
		sex  Sex
		age  string
	}
	seen := make(map[key]int, len(raw.Rows))

	detail := make([]AgeGenderDetail, 0, len(raw.Rows))
	for n, row := range raw.Rows {
		line := n + 2
		ageLabel := strings.TrimSpace(row[idx["age"]])
		age, err := ParseAge(ageLabel)
		if err != nil {
			var ape *AgeParseError
			if errors.As(err, &ape) {
				ape.Line = line
			}
			return nil, nil, fmt.Errorf("age/gender table %s: %w", raw.Path, err)
		}

		sex := Sex(strings.TrimSpace(row[idx["sex"]]))
		if !sex.Valid() {
			return nil, nil, fmt.Errorf("age/gender table %s: line %d: unknown sex %q", raw.Path, line, sex)
		}

		d := AgeGenderDetail{
			Name:       strings.TrimSpace(row[idx["name"]]),
			Sex:        sex,
			Age:        ageLabel,
			AgeNumeric: age,
			AgeBand:    BandForAge(age),
		}
		k := key{d.Name, d.Sex, d.Age}
		if prev, dup := seen[k]; dup {
			return nil, nil, fmt.Errorf("age/gender table %s: line %d: duplicate row for %s/%s/%s (first on line %d)",
				raw.Path, line, d.Name, d.Sex, d.Age, prev)
		}
		seen[k] = line

		if d.Population2011, err = parseIntCell(row[idx["population_2011"]]); err != nil {
			return nil, nil, cellError(raw.Path, line, "population_2011", err)
		}
		if d.Population2022, err = parseIntCell(row[idx["population_2022"]]); err != nil {
			return nil, nil, cellError(raw.Path, line, "population_2022", err)
		}
		detail = append(detail, d)
	}

	return detail, Unpivot(detail), nil
}

// Unpivot produces two long rows per detail row, one per census year, sorted
// by (name, year, sex, numeric age). The sort is stable so ties keep input
// order.
func Unpivot(detail []AgeGenderDetail) []AgeGenderLong {
	long := make([]AgeGenderLong, 0, 2*len(detail))
	for _, year := range Years {
		for _, d := range detail {
			pop, _ := d.Population(year)
			long = append(long, AgeGenderLong{
				Name:       d.Name,
				Sex:        d.Sex,
				Age:        d.Age,
				AgeNumeric: d.AgeNumeric,
				AgeBand:    d.AgeBand,
				Year:       year,
				Population: pop,
			})
		}
	}
	slices.SortStableFunc(long, func(a, b AgeGenderLong) int {
		return cmp.Or(
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Year, b.Year),
			cmp.Compare(a.Sex, b.Sex),
			cmp.Compare(a.AgeNumeric, b.AgeNumeric),
		)
	})
	return long
}
