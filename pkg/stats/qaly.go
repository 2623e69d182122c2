package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// RemainingHALE averages the HALE rows overlapping bin, per sex. The rows
// must cover every age of bin.
func RemainingHALE(hale []HALERow, bin AgeBin) (males, females float64, err error) {
	if !Covers(hale, bin) {
		return 0, 0, fmt.Errorf("hale table does not cover ages %s: %w", bin.Label(), ErrLookup)
	}
	rows := Overlapping(hale, bin)
	m := make([]float64, len(rows))
	f := make([]float64, len(rows))
	for i, r := range rows {
		m[i] = r.Males
		f[i] = r.Females
	}
	return stat.Mean(m, nil), stat.Mean(f, nil), nil
}

// HospitalizedQALY returns the QALY lost in a year by patients who die in
// hospital, discounted by the comorbidity factor.
func HospitalizedQALY(hos []HospitalizationRow, hale []HALERow, comorbidity float64) (float64, error) {
	if err := Validate(hos); err != nil {
		return 0, fmt.Errorf("hospitalization table: %w", err)
	}
	if err := Validate(hale); err != nil {
		return 0, fmt.Errorf("hale table: %w", err)
	}

	var total float64
	for _, r := range hos {
		males, females, err := RemainingHALE(hale, r.AgeBin)
		if err != nil {
			return 0, err
		}
		total += r.Males*males*r.DeathsMales + r.Females*females*r.DeathsFemales
	}
	return total * comorbidity, nil
}

// DeathQALY looks up the remaining HALE of every reported death and returns
// the mean, discounted by the comorbidity factor, together with a copy of
// the reports annotated with their QALY lost.
func DeathQALY(reports []DeathReport, hale []HALERow, comorbidity float64) (float64, []DeathReport, error) {
	if len(reports) == 0 {
		return 0, nil, fmt.Errorf("no death reports: %w", ErrDataShape)
	}
	if err := Validate(hale); err != nil {
		return 0, nil, fmt.Errorf("hale table: %w", err)
	}

	out := append([]DeathReport(nil), reports...)
	lost := make([]float64, len(out))
	for i := range out {
		r, ok := Containing(hale, out[i].Age)
		if !ok {
			return 0, nil, fmt.Errorf("death report %d aged %d: %w", i, out[i].Age, ErrLookup)
		}
		out[i].QALYLost = r.Value(out[i].Gender)
		lost[i] = out[i].QALYLost
	}
	return stat.Mean(lost, nil) * comorbidity, out, nil
}
