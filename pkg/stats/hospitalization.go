package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// DischargeUnit converts source discharge counts, published in thousands.
const DischargeUnit = 1000

// GrowthFactor returns the geometric mean of the year-over-year ratios of an
// ordered series of annual totals.
func GrowthFactor(series []float64) (float64, error) {
	if len(series) < 2 {
		return 0, fmt.Errorf("growth series needs at least two values, got %d: %w", len(series), ErrRange)
	}
	ratios := make([]float64, 0, len(series)-1)
	for i, v := range series {
		if v <= 0 || math.IsNaN(v) {
			return 0, fmt.Errorf("growth series value %v at %d: %w", v, i, ErrRange)
		}
		if i > 0 {
			ratios = append(ratios, v/series[i-1])
		}
	}
	return stat.GeometricMean(ratios, nil), nil
}

// ExtrapolateHospitalizations compounds the growth factor of series over
// yearsForward years and applies it to the discharge columns of src.
// Mortality per discharge is carried over unchanged.
func ExtrapolateHospitalizations(src []HospitalizationRow, series []float64, yearsForward int) ([]HospitalizationRow, error) {
	if yearsForward < 0 {
		return nil, fmt.Errorf("years forward %d: %w", yearsForward, ErrRange)
	}
	if err := Validate(src); err != nil {
		return nil, fmt.Errorf("hospitalization table: %w", err)
	}
	g, err := GrowthFactor(series)
	if err != nil {
		return nil, err
	}
	scale := math.Pow(g, float64(yearsForward)) * DischargeUnit

	out := append([]HospitalizationRow(nil), src...)
	for i := range out {
		out[i].Males *= scale
		out[i].Females *= scale
	}
	return out, nil
}
