package stats

import "fmt"

// SeniorAge is the first age of the senior HALE segment. Rows starting
// below it are anchored to HALE at birth, the rest to HALE at 60.
const SeniorAge = 60

// ExtrapolateHALE projects a historical HALE table to a target year in two
// steps. Each segment of the historical curve is rescaled, per sex, so its
// first row matches the mid-year anchor. The result is then scaled by the
// ratio of final-year to mid-year life expectancy.
func ExtrapolateHALE(hist []HALERow, mid HALEAnchors, leMid, leFinal LifeExpectancy) ([]HALERow, error) {
	if len(hist) == 0 {
		return nil, fmt.Errorf("hale table is empty: %w", ErrDataShape)
	}
	if err := ValidateAscending(hist); err != nil {
		return nil, fmt.Errorf("hale table: %w", err)
	}
	if leMid.Males <= 0 || leMid.Females <= 0 {
		return nil, fmt.Errorf("mid-year life expectancy %+v: %w", leMid, ErrRange)
	}

	split := len(hist)
	for i, r := range hist {
		if r.AgeMin >= SeniorAge {
			split = i
			break
		}
	}
	if split == 0 || split == len(hist) {
		return nil, fmt.Errorf("hale table needs rows both below and from age %d: %w", SeniorAge, ErrDataShape)
	}

	out := append([]HALERow(nil), hist...)
	segments := []struct {
		rows           []HALERow
		males, females float64
	}{
		{out[:split], mid.MalesAge0, mid.FemalesAge0},
		{out[split:], mid.MalesAge60, mid.FemalesAge60},
	}
	for _, s := range segments {
		first := s.rows[0]
		if first.Males <= 0 || first.Females <= 0 {
			return nil, fmt.Errorf("hale segment starting at %s has no positive start value: %w", first.Label(), ErrRange)
		}
		mf, ff := s.males/first.Males, s.females/first.Females
		for i := range s.rows {
			s.rows[i].Males *= mf
			s.rows[i].Females *= ff
		}
	}

	mf, ff := leFinal.Males/leMid.Males, leFinal.Females/leMid.Females
	for i := range out {
		out[i].Males *= mf
		out[i].Females *= ff
	}
	return out, nil
}
