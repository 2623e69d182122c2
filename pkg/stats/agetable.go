package stats

import (
	"fmt"
	"sort"
)

// AgeBin is an inclusive range of integer ages.
type AgeBin struct {
	AgeMin int
	AgeMax int
}

func (b AgeBin) Bin() AgeBin { return b }

// Label renders the bin the way source tables print it, e.g. "15-19" or "85+".
func (b AgeBin) Label() string {
	if b.AgeMax >= MaxAge {
		return fmt.Sprintf("%d+", b.AgeMin)
	}
	if b.AgeMin == b.AgeMax {
		return fmt.Sprintf("%d", b.AgeMin)
	}
	return fmt.Sprintf("%d-%d", b.AgeMin, b.AgeMax)
}

// Width is the number of integer ages in the bin.
func (b AgeBin) Width() int {
	return b.AgeMax - b.AgeMin + 1
}

func (b AgeBin) Contains(age int) bool {
	return age >= b.AgeMin && age <= b.AgeMax
}

// Overlap returns the number of integer ages shared by both bins.
func (b AgeBin) Overlap(o AgeBin) int {
	lo, hi := b.AgeMin, b.AgeMax
	if o.AgeMin > lo {
		lo = o.AgeMin
	}
	if o.AgeMax < hi {
		hi = o.AgeMax
	}
	if hi < lo {
		return 0
	}
	return hi - lo + 1
}

// Binned is implemented by every row type keyed by an age bin.
type Binned interface {
	Bin() AgeBin
}

// Validate checks that no bin is inverted and that no two bins overlap.
// Row order is not checked.
func Validate[R Binned](rows []R) error {
	for _, r := range rows {
		b := r.Bin()
		if b.AgeMin > b.AgeMax {
			return fmt.Errorf("bin %d-%d is inverted: %w", b.AgeMin, b.AgeMax, ErrRange)
		}
		if b.AgeMin < 0 {
			return fmt.Errorf("bin %d-%d starts below zero: %w", b.AgeMin, b.AgeMax, ErrRange)
		}
	}
	sorted := Sorted(rows)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1].Bin(), sorted[i].Bin()
		if cur.AgeMin <= prev.AgeMax {
			return fmt.Errorf("bins %s and %s overlap: %w", prev.Label(), cur.Label(), ErrDataShape)
		}
	}
	return nil
}

// ValidateAscending is Validate plus the requirement that rows are already
// in ascending age order.
func ValidateAscending[R Binned](rows []R) error {
	if err := Validate(rows); err != nil {
		return err
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Bin().AgeMin < rows[i-1].Bin().AgeMin {
			return fmt.Errorf("bin %s follows %s: %w", rows[i].Bin().Label(), rows[i-1].Bin().Label(), ErrDataShape)
		}
	}
	return nil
}

// Sorted returns a copy of rows ordered by AgeMin.
func Sorted[R Binned](rows []R) []R {
	out := append([]R(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Bin().AgeMin < out[j].Bin().AgeMin
	})
	return out
}

// Containing returns the first row whose bin contains age.
func Containing[R Binned](rows []R, age int) (R, bool) {
	for _, r := range rows {
		if r.Bin().Contains(age) {
			return r, true
		}
	}
	var zero R
	return zero, false
}

// Overlapping returns the rows sharing at least one age with bin, in age order.
func Overlapping[R Binned](rows []R, bin AgeBin) []R {
	var out []R
	for _, r := range Sorted(rows) {
		if r.Bin().Overlap(bin) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// Covers reports whether rows jointly cover every age of bin without gaps.
func Covers[R Binned](rows []R, bin AgeBin) bool {
	next := bin.AgeMin
	for _, r := range Overlapping(rows, bin) {
		b := r.Bin()
		if b.AgeMin > next {
			return false
		}
		if b.AgeMax+1 > next {
			next = b.AgeMax + 1
		}
		if next > bin.AgeMax {
			return true
		}
	}
	return next > bin.AgeMax
}
