package dataset

import (
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"

	"github.com/anrid/covid-qaly/pkg/stats"
)

// Calibration holds the headline figures the extrapolations are anchored to.
//
// HALE is only published for MidYear, life expectancy for both MidYear and
// FinalYear. Discharges is the series of national discharge totals the
// hospitalization growth rate is estimated from.
type Calibration struct {
	MidYear   int `toml:"mid_year" json:"mid_year"`
	FinalYear int `toml:"final_year" json:"final_year"`

	HALEMid stats.HALEAnchors    `toml:"hale_mid" json:"hale_mid"`
	LEMid   stats.LifeExpectancy `toml:"le_mid" json:"le_mid"`
	LEFinal stats.LifeExpectancy `toml:"le_final" json:"le_final"`

	Discharges                  []float64 `toml:"discharges" json:"discharges"`
	HospitalizationYearsForward int       `toml:"hospitalization_years_forward" json:"hospitalization_years_forward"`

	GDPPerCapita float64 `toml:"gdp_per_capita" json:"gdp_per_capita"`
	Currency     string  `toml:"currency" json:"currency"`
}

const calibrationFile = "calibration.toml"

// LoadCalibration decodes a TOML calibration file from fsys on top of base.
// Keys missing from the file keep their base value.
func LoadCalibration(fsys fs.FS, name string, base Calibration) (Calibration, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return base, fmt.Errorf("failed to read calibration: %w", err)
	}
	cal := base
	cal.Discharges = append([]float64(nil), base.Discharges...)
	if _, err := toml.Decode(string(data), &cal); err != nil {
		return base, fmt.Errorf("failed to decode calibration: %w", err)
	}
	return cal, nil
}

// DefaultCalibration returns the calibration shipped with the default dataset.
func DefaultCalibration() Calibration {
	cal, err := LoadCalibration(defaultFS(), calibrationFile, Calibration{})
	if err != nil {
		panic(err)
	}
	return cal
}
