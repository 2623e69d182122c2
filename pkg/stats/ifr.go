package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// IFRDigits is the number of decimal digits the weighted IFR fraction is
// rounded to. Five digits of the fraction are three digits of the percentage.
const IFRDigits = 5

// Protection discounts the exposed population of an inclusive age range.
// A Factor of 1 leaves the population untouched.
type Protection struct {
	AgeMin int
	AgeMax int
	Factor float64
}

// NoProtection leaves every age fully exposed.
var NoProtection = Protection{AgeMin: 0, AgeMax: MaxAge, Factor: 1}

func (p Protection) validate() error {
	if p.AgeMin > p.AgeMax {
		return fmt.Errorf("protected ages %d-%d are inverted: %w", p.AgeMin, p.AgeMax, ErrRange)
	}
	if p.Factor < 0 || math.IsNaN(p.Factor) {
		return fmt.Errorf("protection factor %v: %w", p.Factor, ErrRange)
	}
	return nil
}

// Protect returns a copy of pop with the protected ages discounted by the
// protection factor. Rows are treated as uniform across their bin, so a row
// straddling the protected range is discounted by its overlapping share.
func Protect(pop []PopulationRow, p Protection) ([]PopulationRow, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	out := append([]PopulationRow(nil), pop...)
	protected := AgeBin{AgeMin: p.AgeMin, AgeMax: p.AgeMax}
	for i := range out {
		share := float64(out[i].Overlap(protected)) / float64(out[i].Width())
		out[i].Population *= 1 - (1-p.Factor)*share
	}
	return out, nil
}

// SumPopulation returns the population living in bin.
func SumPopulation(pop []PopulationRow, bin AgeBin) float64 {
	var sum float64
	for _, r := range Sorted(pop) {
		if n := r.Overlap(bin); n > 0 {
			sum += r.Population * float64(n) / float64(r.Width())
		}
	}
	return sum
}

// TotalPopulation sums every row of pop.
func TotalPopulation(pop []PopulationRow) float64 {
	var sum float64
	for _, r := range pop {
		sum += r.Population
	}
	return sum
}

// WeightIFR computes the population weighted infection fatality rate of an
// IFR study, after discounting the protected ages. It returns the rounded
// rate and a copy of the study rows with their Population column filled in.
// Neither input is modified.
func WeightIFR(ifr []IFRRow, pop []PopulationRow, p Protection) (float64, []IFRRow, error) {
	if err := Validate(ifr); err != nil {
		return 0, nil, fmt.Errorf("ifr table: %w", err)
	}
	if err := Validate(pop); err != nil {
		return 0, nil, fmt.Errorf("population table: %w", err)
	}
	for _, r := range ifr {
		if r.IFR < 0 || r.IFR > 1 || math.IsNaN(r.IFR) {
			return 0, nil, fmt.Errorf("ifr %v for ages %s: %w", r.IFR, r.Label(), ErrRange)
		}
	}

	exposed, err := Protect(pop, p)
	if err != nil {
		return 0, nil, err
	}

	rows := append([]IFRRow(nil), ifr...)
	for i := range rows {
		rows[i].Population = SumPopulation(exposed, rows[i].AgeBin)
	}

	sorted := Sorted(rows)
	rates := make([]float64, len(sorted))
	weights := make([]float64, len(sorted))
	var total float64
	for i, r := range sorted {
		rates[i] = r.IFR
		weights[i] = r.Population
		total += r.Population
	}
	if total <= 0 {
		return 0, nil, fmt.Errorf("ifr weighting has zero population: %w", ErrRange)
	}

	return round(stat.Mean(rates, weights), IFRDigits), rows, nil
}

func round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
