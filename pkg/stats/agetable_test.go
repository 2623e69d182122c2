package stats

import (
	"errors"
	"testing"
)

func bins(pairs ...int) []AgeBin {
	var out []AgeBin
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, AgeBin{AgeMin: pairs[i], AgeMax: pairs[i+1]})
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		rows []AgeBin
		want error
	}{
		{"ok", bins(0, 4, 5, 9, 10, 120), nil},
		{"unordered is fine", bins(10, 120, 0, 4, 5, 9), nil},
		{"inverted", bins(0, 4, 9, 5), ErrRange},
		{"negative", bins(-1, 4), ErrRange},
		{"overlap", bins(0, 5, 5, 9), ErrDataShape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.rows)
			if tc.want == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateAscendingRejectsUnordered(t *testing.T) {
	if err := ValidateAscending(bins(5, 9, 0, 4)); !errors.Is(err, ErrDataShape) {
		t.Fatalf("expected ErrDataShape, got %v", err)
	}
}

func TestOverlap(t *testing.T) {
	b := AgeBin{AgeMin: 60, AgeMax: 79}
	if got := b.Overlap(AgeBin{AgeMin: 65, AgeMax: 120}); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
	if got := b.Overlap(AgeBin{AgeMin: 80, AgeMax: 120}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestCovers(t *testing.T) {
	rows := bins(0, 4, 5, 9, 15, 19)
	if !Covers(rows, AgeBin{AgeMin: 2, AgeMax: 8}) {
		t.Fatal("expected 2-8 to be covered")
	}
	if Covers(rows, AgeBin{AgeMin: 5, AgeMax: 15}) {
		t.Fatal("expected gap 10-14 to break coverage")
	}
	if Covers(rows, AgeBin{AgeMin: 18, AgeMax: 25}) {
		t.Fatal("expected 20-25 to be uncovered")
	}
}

func TestOverlappingIsSorted(t *testing.T) {
	got := Overlapping(bins(10, 14, 0, 4, 5, 9), AgeBin{AgeMin: 3, AgeMax: 11})
	if len(got) != 3 || got[0].AgeMin != 0 || got[2].AgeMin != 10 {
		t.Fatalf("unexpected rows: %+v", got)
	}
}

func TestLabel(t *testing.T) {
	for want, b := range map[string]AgeBin{
		"0":     {0, 0},
		"15-19": {15, 19},
		"85+":   {85, MaxAge},
	} {
		if got := b.Label(); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}
