package scenario

import (
	"context"
	"errors"
	"math"
	"testing"

	"golang.org/x/text/language"

	"github.com/anrid/covid-qaly/pkg/dataset"
	"github.com/anrid/covid-qaly/pkg/stats"
)

func assertClose(t *testing.T, want, got float64, what string) {
	t.Helper()
	if math.Abs(want-got) > 1e-9*math.Max(1, math.Abs(want)) {
		t.Errorf("%s: expected %v, got %v", what, want, got)
	}
}

// threeBinDB is a flat dataset whose result can be worked out by hand.
func threeBinDB() *dataset.Database {
	b := []stats.AgeBin{{AgeMin: 0, AgeMax: 59}, {AgeMin: 60, AgeMax: 79}, {AgeMin: 80, AgeMax: 120}}
	flatIFR := []stats.IFRRow{{AgeBin: b[0], IFR: 0.01}, {AgeBin: b[1], IFR: 0.01}, {AgeBin: b[2], IFR: 0.01}}
	return &dataset.Database{
		Source: "test",
		Population: []stats.PopulationRow{
			{AgeBin: b[0], Population: 1_000_000},
			{AgeBin: b[1], Population: 200_000},
			{AgeBin: b[2], Population: 50_000},
		},
		Studies: []stats.IFRStudy{
			{Index: 0, Name: "flat a", Rows: flatIFR},
			{Index: 1, Name: "flat b", Rows: flatIFR},
			{Index: 2, Name: "flat c", Rows: flatIFR},
		},
		HALE: []stats.HALERow{
			{AgeBin: b[0], Males: 20, Females: 20},
			{AgeBin: b[1], Males: 20, Females: 20},
			{AgeBin: b[2], Males: 20, Females: 20},
		},
		Hospitalization: []stats.HospitalizationRow{{AgeBin: b[0]}, {AgeBin: b[1]}, {AgeBin: b[2]}},
		Deaths:          []stats.DeathReport{{Age: 70, Gender: stats.Male}},
		Calibration: dataset.Calibration{
			MidYear:                     2016,
			FinalYear:                   2019,
			HALEMid:                     stats.HALEAnchors{MalesAge0: 20, FemalesAge0: 20, MalesAge60: 20, FemalesAge60: 20},
			LEMid:                       stats.LifeExpectancy{Males: 80, Females: 84},
			LEFinal:                     stats.LifeExpectancy{Males: 80, Females: 84},
			Discharges:                  []float64{1000, 1000},
			HospitalizationYearsForward: 5,
			GDPPerCapita:                155666,
			Currency:                    "NIS",
		},
	}
}

func TestRunThreeBinGolden(t *testing.T) {
	r, err := New(threeBinDB()).Run(Defaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if r.IFR != 0.01 {
		t.Fatalf("expected ifr 0.01, got %v", r.IFR)
	}
	assertClose(t, 1_250_000, r.Population, "population")
	assertClose(t, 4375, r.ExpectedDeaths, "expected deaths")
	assertClose(t, 14, r.MeanQALYPerDeath, "mean qaly per death")
	assertClose(t, 61250, r.QALYLostDeaths, "qaly lost from deaths")
	if r.QALYLostCollapse != 0 {
		t.Fatalf("expected no collapse qaly, got %v", r.QALYLostCollapse)
	}
	if r.QALYUnitValue.IntPart() != 466998 {
		t.Fatalf("expected qaly value 466998, got %s", r.QALYUnitValue)
	}
	if r.Value != 28_603_627_500 {
		t.Fatalf("expected 28603627500, got %d", r.Value)
	}
	if got := r.Format(language.English); got != "28,603,627,500 NIS" {
		t.Fatalf("unexpected format: %q", got)
	}
	if got := r.Format(language.German); got != "28.603.627.500 NIS" {
		t.Fatalf("unexpected german format: %q", got)
	}
}

func TestRunMultiplierIsLinear(t *testing.T) {
	e := New(threeBinDB())
	p := Defaults()
	base, err := e.Run(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.QALYValueMultiplier = 6
	double, err := e.Run(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if double.Value != 2*base.Value {
		t.Fatalf("expected %d, got %d", 2*base.Value, double.Value)
	}

	db, err := dataset.Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e = New(db)
	p = Defaults()
	one, err := e.Run(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.QALYValueMultiplier = 1.5
	half, err := e.Run(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, 0.5, float64(half.Value)/float64(one.Value), "value ratio")
}

func TestRunDefaultDatabase(t *testing.T) {
	db, err := dataset.Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := db.Population[70].Population

	e := New(db)
	r, err := e.Run(Defaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Study != "O'Driscoll et al." {
		t.Fatalf("unexpected study %q", r.Study)
	}
	if r.IFR <= 0 || r.IFR >= 0.05 {
		t.Fatalf("implausible ifr %v", r.IFR)
	}
	if r.QALYLostDeaths <= 0 || r.QALYLostCollapse <= 0 {
		t.Fatalf("expected both qaly terms, got %+v", r)
	}
	if r.Value <= 0 || r.Currency != "NIS" {
		t.Fatalf("unexpected value %d %s", r.Value, r.Currency)
	}
	if len(r.DeathReports) != len(db.Deaths) || db.Deaths[0].QALYLost != 0 {
		t.Fatalf("death reports should be annotated on a copy")
	}
	if db.Population[70].Population != before {
		t.Fatalf("population table was modified")
	}

	again, err := e.Run(Defaults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Value != r.Value {
		t.Fatalf("expected deterministic value %d, got %d", r.Value, again.Value)
	}
}

func TestEngineHALE(t *testing.T) {
	db, err := dataset.Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hale, err := New(db).HALE()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, 71.7*81/80.7, hale[0].Males, "males at birth")
	assertClose(t, 20.5*84.7/84.2, hale[13].Females, "females at 60")
}

func TestRunErrors(t *testing.T) {
	e := New(threeBinDB())

	p := Defaults()
	p.IFRScenario = 3
	if r, err := e.Run(p); !errors.Is(err, stats.ErrValue) || r != nil {
		t.Fatalf("expected ErrValue and no result, got %v, %v", r, err)
	}

	p = Defaults()
	p.HerdImmunityThreshold = 1.5
	if _, err := e.Run(p); !errors.Is(err, stats.ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}

	p = Defaults()
	p.OldDefenceLow, p.OldDefenceHigh = 90, 80
	if _, err := e.Run(p); !errors.Is(err, stats.ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}

	db := threeBinDB()
	db.Deaths = []stats.DeathReport{{Age: 130, Gender: stats.Female}}
	if _, err := New(db).Run(Defaults()); !errors.Is(err, stats.ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}
}

func TestRunValueOverflow(t *testing.T) {
	e := New(threeBinDB())

	p := Defaults()
	p.QALYValueMultiplier = 9e8
	r, err := e.Run(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Value <= 0 {
		t.Fatalf("expected a positive value, got %d", r.Value)
	}

	p.QALYValueMultiplier = 1e9
	if r, err := e.Run(p); !errors.Is(err, stats.ErrRange) || r != nil {
		t.Fatalf("expected ErrRange and no result, got %v, %v", r, err)
	}
}

func TestRunAll(t *testing.T) {
	db, err := dataset.Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := New(db)

	var params []Parameters
	for i := range db.Studies {
		p := Defaults()
		p.IFRScenario = i
		params = append(params, p)
	}

	results, err := e.RunAll(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range params {
		want, err := e.Run(p)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results[i].Value != want.Value || results[i].Study != db.Studies[i].Name {
			t.Fatalf("result %d: expected %d (%s), got %d (%s)", i, want.Value, want.Study, results[i].Value, results[i].Study)
		}
	}

	params[1].IFRScenario = 7
	if _, err := e.RunAll(context.Background(), params); !errors.Is(err, stats.ErrValue) {
		t.Fatalf("expected ErrValue, got %v", err)
	}
}
