package stats

import (
	"fmt"
	"strings"
)

// MaxAge closes open-ended age brackets such as "85+".
const MaxAge = 120

// PopulationRow holds the population count of one age bin. Population tables
// normally carry one row per single year of age.
type PopulationRow struct {
	AgeBin
	Population float64
}

// IFRRow is one age bracket of a published infection fatality rate study.
// Population is a working column filled in during weighting.
type IFRRow struct {
	AgeBin
	IFR        float64
	Population float64
}

// IFRStudy is a named IFR-by-age table.
type IFRStudy struct {
	Index int
	Name  string
	Rows  []IFRRow
}

// HALERow holds the remaining health adjusted life expectancy, in years,
// for both sexes in one age bin.
type HALERow struct {
	AgeBin
	Males   float64
	Females float64
}

// Value returns the HALE figure for the given sex.
func (r HALERow) Value(g Gender) float64 {
	if g == Female {
		return r.Females
	}
	return r.Males
}

// HALEAnchors are headline HALE figures at birth and at age 60.
type HALEAnchors struct {
	MalesAge0    float64 `toml:"males_age_0" json:"males_age_0"`
	FemalesAge0  float64 `toml:"females_age_0" json:"females_age_0"`
	MalesAge60   float64 `toml:"males_age_60" json:"males_age_60"`
	FemalesAge60 float64 `toml:"females_age_60" json:"females_age_60"`
}

// LifeExpectancy at birth, per sex.
type LifeExpectancy struct {
	Males   float64 `toml:"males" json:"males"`
	Females float64 `toml:"females" json:"females"`
}

// HospitalizationRow holds discharges and in-hospital mortality per discharge
// for one age bin.
type HospitalizationRow struct {
	AgeBin
	Males         float64
	Females       float64
	DeathsMales   float64
	DeathsFemales float64
}

type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Female {
		return "Female"
	}
	return "Male"
}

// ParseGender accepts "Male"/"Female" and their one-letter forms, case-insensitively.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	}
	return Male, fmt.Errorf("unknown gender %q: %w", s, ErrDataShape)
}

// DeathReport is one reported death. QALYLost is filled in by DeathQALY.
type DeathReport struct {
	Age      int
	Gender   Gender
	QALYLost float64
}
