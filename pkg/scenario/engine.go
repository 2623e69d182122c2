// Package scenario prices the QALY lost in an epidemic scenario.
package scenario

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/anrid/covid-qaly/pkg/dataset"
	"github.com/anrid/covid-qaly/pkg/stats"
)

// Engine runs scenarios against one reference database. The database is
// only read, so an Engine may run scenarios concurrently.
type Engine struct {
	db *dataset.Database
}

func New(db *dataset.Database) *Engine {
	return &Engine{db: db}
}

// HALE returns the HALE table projected to the calibration's final year.
func (e *Engine) HALE() ([]stats.HALERow, error) {
	cal := e.db.Calibration
	hale, err := stats.ExtrapolateHALE(e.db.HALE, cal.HALEMid, cal.LEMid, cal.LEFinal)
	if err != nil {
		return nil, fmt.Errorf("extrapolating hale: %w", err)
	}
	return hale, nil
}

// Hospitalizations returns the hospitalization table projected forward by
// the calibration's number of years.
func (e *Engine) Hospitalizations() ([]stats.HospitalizationRow, error) {
	cal := e.db.Calibration
	hos, err := stats.ExtrapolateHospitalizations(e.db.Hospitalization, cal.Discharges, cal.HospitalizationYearsForward)
	if err != nil {
		return nil, fmt.Errorf("extrapolating hospitalizations: %w", err)
	}
	return hos, nil
}

// Run computes the value of the QALY lost under p. Any failing step aborts
// the run.
func (e *Engine) Run(p Parameters) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	study, err := e.db.Study(p.IFRScenario)
	if err != nil {
		return nil, err
	}

	ifr, ifrRows, err := stats.WeightIFR(study.Rows, e.db.Population, p.protection())
	if err != nil {
		return nil, fmt.Errorf("weighting ifr of %s: %w", study.Name, err)
	}

	population := stats.TotalPopulation(e.db.Population)
	deaths := population * ifr * p.HerdImmunityThreshold * p.LockdownPreventionFactor

	hale, err := e.HALE()
	if err != nil {
		return nil, err
	}
	meanQALY, reports, err := stats.DeathQALY(e.db.Deaths, hale, p.CoronaComorbidity)
	if err != nil {
		return nil, fmt.Errorf("death qaly: %w", err)
	}
	lostDeaths := meanQALY * deaths

	hos, err := e.Hospitalizations()
	if err != nil {
		return nil, err
	}
	hospitalized, err := stats.HospitalizedQALY(hos, hale, p.HospitalizedComorbidity)
	if err != nil {
		return nil, fmt.Errorf("hospitalized qaly: %w", err)
	}
	lostCollapse := hospitalized * p.HealthcareCollapseFactor

	unit := decimal.NewFromFloat(e.db.Calibration.GDPPerCapita).Mul(decimal.NewFromFloat(p.QALYValueMultiplier))
	// Round is half away from zero; only an exact .5 total differs from half-to-even.
	total := decimal.NewFromFloat(lostDeaths + lostCollapse).Mul(unit).Round(0)
	if total.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return nil, fmt.Errorf("qaly value %s: %w", total, stats.ErrRange)
	}

	return &Result{
		Parameters:       p,
		Study:            study.Name,
		IFR:              ifr,
		Population:       population,
		ExpectedDeaths:   deaths,
		MeanQALYPerDeath: meanQALY,
		QALYLostDeaths:   lostDeaths,
		QALYLostCollapse: lostCollapse,
		QALYUnitValue:    unit,
		Value:            total.IntPart(),
		Currency:         e.db.Calibration.Currency,
		IFRRows:          ifrRows,
		DeathReports:     reports,
	}, nil
}

// RunAll runs independent parameter sets in parallel. Results are in the
// order of params; the first failure cancels the rest.
func (e *Engine) RunAll(ctx context.Context, params []Parameters) ([]*Result, error) {
	results := make([]*Result, len(params))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range params {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := e.Run(p)
			if err != nil {
				return fmt.Errorf("scenario %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
