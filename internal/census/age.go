package census

import (
	"fmt"
	"strconv"
	"strings"
)

// TopAgeLabel is the open-ended top age bucket in the published tables.
const TopAgeLabel = "90+"

// AgeParseError reports an age label that is neither TopAgeLabel nor a
// non-negative integer.
type AgeParseError struct {
	Line  int
	Label string
	Err   error
}

func (e *AgeParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: invalid age %q: %v", e.Line, e.Label, e.Err)
	}
	return fmt.Sprintf("invalid age %q: %v", e.Label, e.Err)
}

func (e *AgeParseError) Unwrap() error { return e.Err }

// ParseAge converts an age label to whole years. "90+" maps to 90.
func ParseAge(label string) (int, error) {
	s := strings.TrimSpace(label)
	if s == TopAgeLabel {
		return 90, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &AgeParseError{Label: label, Err: err}
	}
	if n < 0 {
		return 0, &AgeParseError{Label: label, Err: fmt.Errorf("negative age")}
	}
	return n, nil
}

// AgeBand is one of the six coarse age groups.
type AgeBand string

const (
	Band0To17  AgeBand = "0-17"
	Band18To24 AgeBand = "18-24"
	Band25To39 AgeBand = "25-39"
	Band40To59 AgeBand = "40-59"
	Band60To74 AgeBand = "60-74"
	Band75Plus AgeBand = "75+"
)

// AgeBands lists the bands in ascending age order.
var AgeBands = []AgeBand{Band0To17, Band18To24, Band25To39, Band40To59, Band60To74, Band75Plus}

// bandUpper holds the inclusive upper bound of each band but the last.
var bandUpper = []int{17, 24, 39, 59, 74}

// BandForAge assigns an age to its band. Intervals are closed on the right,
// so 17 is "0-17" and 18 is "18-24".
func BandForAge(age int) AgeBand {
	for i, upper := range bandUpper {
		if age <= upper {
			return AgeBands[i]
		}
	}
	return Band75Plus
}

// ParseAgeBand validates a band label.
func ParseAgeBand(label string) (AgeBand, error) {
	for _, b := range AgeBands {
		if string(b) == label {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown age band %q", label)
}

// AllAgesLabel is the selector label for "do not filter by band".
const AllAgesLabel = "All Ages"

// AgeBandChoice selects either every band or one specific band. The zero
// value selects all bands.
type AgeBandChoice struct {
	specific bool
	band     AgeBand
}

// AllBands selects every age band.
func AllBands() AgeBandChoice { return AgeBandChoice{} }

// SpecificBand restricts a query to one band.
func SpecificBand(b AgeBand) AgeBandChoice { return AgeBandChoice{specific: true, band: b} }

// Band returns the selected band, or false when all bands are selected.
func (c AgeBandChoice) Band() (AgeBand, bool) { return c.band, c.specific }

// IsAll reports whether no band filter applies.
func (c AgeBandChoice) IsAll() bool { return !c.specific }

// Label is the selector label: a band name or AllAgesLabel.
func (c AgeBandChoice) Label() string {
	if !c.specific {
		return AllAgesLabel
	}
	return string(c.band)
}

func (c AgeBandChoice) String() string { return c.Label() }

// Matches reports whether a row in band b passes this choice.
func (c AgeBandChoice) Matches(b AgeBand) bool {
	return !c.specific || c.band == b
}

// ParseAgeBandChoice accepts AllAgesLabel, an empty string (all bands), or a
// band label.
func ParseAgeBandChoice(label string) (AgeBandChoice, error) {
	label = strings.TrimSpace(label)
	if label == "" || label == AllAgesLabel {
		return AllBands(), nil
	}
	b, err := ParseAgeBand(label)
	if err != nil {
		return AgeBandChoice{}, err
	}
	return SpecificBand(b), nil
}

// AgeBandOptions lists the selector labels, AllAgesLabel first.
func AgeBandOptions() []string {
	out := make([]string, 0, len(AgeBands)+1)
	out = append(out, AllAgesLabel)
	for _, b := range AgeBands {
		out = append(out, string(b))
	}
	return out
}

// Sex is the published sex code.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// Sexes lists the codes in selector order.
var Sexes = []Sex{SexMale, SexFemale}

// DisplayName returns "Male" or "Female".
func (s Sex) DisplayName() string {
	switch s {
	case SexMale:
		return "Male"
	case SexFemale:
		return "Female"
	default:
		return string(s)
	}
}

// Valid reports whether s is one of the known codes.
func (s Sex) Valid() bool { return s == SexMale || s == SexFemale }

// ParseSex accepts a code ("M", "F") or a display name ("Male", "Female"),
// case-insensitively. An empty string yields the zero Sex with no error so
// callers can treat it as "not selected".
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "m", "male":
		return SexMale, nil
	case "f", "female":
		return SexFemale, nil
	}
	return "", fmt.Errorf("unknown sex %q", s)
}
