package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anrid/covid-qaly/pkg/stats"
)

func mustTrim(v string) string {
	return strings.Trim(v, " \n\t\r")
}

// parseFloat accepts thousands separators, as in "1,297,233".
func parseFloat(v string) (float64, error) {
	v = strings.ReplaceAll(mustTrim(v), ",", "")
	if v == "-" {
		v = "0"
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse '%s' into float64: %w", v, stats.ErrDataShape)
	}
	return f, nil
}

func parseAge(v string) (int, error) {
	a, err := strconv.Atoi(strings.TrimSuffix(mustTrim(v), "+"))
	if err != nil {
		return 0, fmt.Errorf("could not parse age '%s': %w", v, stats.ErrDataShape)
	}
	return a, nil
}

// record gives access to the cells of one data row by column name.
type record struct {
	cols map[string]int
	row  []string
	err  error
}

func (r *record) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.row) {
		return ""
	}
	return mustTrim(r.row[i])
}

func (r *record) float(col string) float64 {
	if r.err != nil {
		return 0
	}
	f, err := parseFloat(r.str(col))
	if err != nil {
		r.err = fmt.Errorf("column '%s': %w", col, err)
	}
	return f
}

func (r *record) age(col string) int {
	if r.err != nil {
		return 0
	}
	a, err := parseAge(r.str(col))
	if err != nil {
		r.err = fmt.Errorf("column '%s': %w", col, err)
	}
	return a
}

// readTable extracts the rows of f that follow a header row naming every
// required column. Title rows above the header and blank rows are skipped.
// A required column ending in '*' matches any header with that prefix.
func readTable(f *File, required []string, handler func(r *record) error) error {
	var (
		cols     map[string]int
		firstErr error
		line     int
	)

	err := ExtractRows(f, func(row []string) {
		line++
		if firstErr != nil {
			return
		}
		if cols == nil {
			cols = matchHeader(row, required)
			return
		}
		if isBlank(row) {
			return
		}
		rec := &record{cols: cols, row: row}
		if err := handler(rec); err != nil {
			firstErr = fmt.Errorf("%s line %d: %w", f.Name, line, err)
		}
	})
	if err != nil {
		return err
	}
	if cols == nil {
		return fmt.Errorf("%s: no header with columns %v: %w", f.Name, required, stats.ErrDataShape)
	}
	return firstErr
}

func matchHeader(row []string, required []string) map[string]int {
	cols := make(map[string]int)
	for _, want := range required {
		prefix := strings.TrimSuffix(want, "*")
		for i, cell := range row {
			cell = mustTrim(cell)
			if cell == want || (prefix != want && strings.HasPrefix(cell, prefix)) {
				cols[want] = i
				break
			}
		}
		if _, ok := cols[want]; !ok {
			return nil
		}
	}
	return cols
}

func isBlank(row []string) bool {
	for _, c := range row {
		if mustTrim(c) != "" {
			return false
		}
	}
	return true
}

func bin(r *record) stats.AgeBin {
	return stats.AgeBin{AgeMin: r.age("Age min"), AgeMax: r.age("Age max")}
}

// ParsePopulation reads a population pyramid with one row per age. The last
// age may be open-ended, e.g. "95+".
func ParsePopulation(f *File) ([]stats.PopulationRow, error) {
	var out []stats.PopulationRow
	err := readTable(f, []string{"Age", "Population"}, func(r *record) error {
		age := r.age("Age")
		b := stats.AgeBin{AgeMin: age, AgeMax: age}
		if strings.HasSuffix(r.str("Age"), "+") {
			b.AgeMax = stats.MaxAge
		}
		out = append(out, stats.PopulationRow{AgeBin: b, Population: r.float("Population")})
		return r.err
	})
	return out, err
}

// ParseIFR reads an IFR-by-age table. IFR values are fractions.
func ParseIFR(f *File) ([]stats.IFRRow, error) {
	var out []stats.IFRRow
	err := readTable(f, []string{"Age min", "Age max", "IFR"}, func(r *record) error {
		out = append(out, stats.IFRRow{AgeBin: bin(r), IFR: r.float("IFR")})
		return r.err
	})
	return out, err
}

// ParseHALE reads a HALE table whose sex columns may carry a year suffix,
// as in "Males 2007".
func ParseHALE(f *File) ([]stats.HALERow, error) {
	var out []stats.HALERow
	err := readTable(f, []string{"Age min", "Age max", "Males*", "Females*"}, func(r *record) error {
		out = append(out, stats.HALERow{
			AgeBin:  bin(r),
			Males:   r.float("Males*"),
			Females: r.float("Females*"),
		})
		return r.err
	})
	return out, err
}

// ParseHospitalizations reads discharges (in thousands) and in-hospital
// mortality per discharge by age and sex.
func ParseHospitalizations(f *File) ([]stats.HospitalizationRow, error) {
	var out []stats.HospitalizationRow
	cols := []string{"Age min", "Age max", "Male", "Female", "Deaths Males", "Deaths Females"}
	err := readTable(f, cols, func(r *record) error {
		out = append(out, stats.HospitalizationRow{
			AgeBin:        bin(r),
			Males:         r.float("Male"),
			Females:       r.float("Female"),
			DeathsMales:   r.float("Deaths Males"),
			DeathsFemales: r.float("Deaths Females"),
		})
		return r.err
	})
	return out, err
}

// ParseDeaths reads a death report with one (Age, Gender) row per death.
func ParseDeaths(f *File) ([]stats.DeathReport, error) {
	var out []stats.DeathReport
	err := readTable(f, []string{"Age", "Gender"}, func(r *record) error {
		age := r.age("Age")
		if r.err != nil {
			return r.err
		}
		g, err := stats.ParseGender(r.str("Gender"))
		if err != nil {
			return err
		}
		out = append(out, stats.DeathReport{Age: age, Gender: g})
		return nil
	})
	return out, err
}
