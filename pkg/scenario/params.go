package scenario

import (
	"fmt"
	"math"

	"github.com/anrid/covid-qaly/pkg/stats"
)

// Parameters are the knobs of one scenario run.
type Parameters struct {
	// IFRScenario picks the IFR study: 0 O'Driscoll, 1 Verity, 2 Levin.
	IFRScenario int `json:"ifr_scenario"`

	// QALYValueMultiplier prices one QALY as a multiple of GDP per capita.
	QALYValueMultiplier float64 `json:"qaly_value_multiplier"`

	// HerdImmunityThreshold is the share of the population infected before
	// transmission subsides.
	HerdImmunityThreshold float64 `json:"herd_immunity_threshold"`

	// OldDefenceFactor is the share of the OldDefenceLow-OldDefenceHigh age
	// range (inclusive) that still gets infected.
	OldDefenceFactor float64 `json:"old_defence_factor"`
	OldDefenceLow    int     `json:"old_defence_low"`
	OldDefenceHigh   int     `json:"old_defence_high"`

	// CoronaComorbidity is the share of average HALE a victim would have had.
	CoronaComorbidity float64 `json:"corona_co_mo_fa"`

	// HospitalizedComorbidity is the same for internal medicine ward deaths.
	HospitalizedComorbidity float64 `json:"hospitalized_co_mo_fa"`

	// HealthcareCollapseFactor is the relative increase in yearly deaths of
	// hospitalized patients caused by an overloaded healthcare system.
	HealthcareCollapseFactor float64 `json:"healthcare_collapse_factor"`

	// LockdownPreventionFactor scales the expected deaths.
	LockdownPreventionFactor float64 `json:"lockdown_prevention_factor"`
}

const (
	DefaultIFRScenario              = 0
	DefaultQALYValueMultiplier      = 3.0
	DefaultHerdImmunityThreshold    = 0.5
	DefaultOldDefenceFactor         = 0.75
	DefaultOldDefenceLow            = 65
	DefaultOldDefenceHigh           = 120
	DefaultCoronaComorbidity        = 0.7
	DefaultHospitalizedComorbidity  = 0.7
	DefaultHealthcareCollapseFactor = 0.4
	DefaultLockdownPreventionFactor = 0.7
)

func Defaults() Parameters {
	return Parameters{
		IFRScenario:              DefaultIFRScenario,
		QALYValueMultiplier:      DefaultQALYValueMultiplier,
		HerdImmunityThreshold:    DefaultHerdImmunityThreshold,
		OldDefenceFactor:         DefaultOldDefenceFactor,
		OldDefenceLow:            DefaultOldDefenceLow,
		OldDefenceHigh:           DefaultOldDefenceHigh,
		CoronaComorbidity:        DefaultCoronaComorbidity,
		HospitalizedComorbidity:  DefaultHospitalizedComorbidity,
		HealthcareCollapseFactor: DefaultHealthcareCollapseFactor,
		LockdownPreventionFactor: DefaultLockdownPreventionFactor,
	}
}

func (p Parameters) protection() stats.Protection {
	return stats.Protection{AgeMin: p.OldDefenceLow, AgeMax: p.OldDefenceHigh, Factor: p.OldDefenceFactor}
}

// Validate checks every knob except the study index, which is checked
// against the database.
func (p Parameters) Validate() error {
	fractions := []struct {
		name string
		v    float64
	}{
		{"herd immunity threshold", p.HerdImmunityThreshold},
		{"lockdown prevention factor", p.LockdownPreventionFactor},
	}
	for _, f := range fractions {
		if f.v < 0 || f.v > 1 || math.IsNaN(f.v) {
			return fmt.Errorf("%s %v, want 0-1: %w", f.name, f.v, stats.ErrRange)
		}
	}

	factors := []struct {
		name string
		v    float64
	}{
		{"qaly value multiplier", p.QALYValueMultiplier},
		{"old defence factor", p.OldDefenceFactor},
		{"corona comorbidity factor", p.CoronaComorbidity},
		{"hospitalized comorbidity factor", p.HospitalizedComorbidity},
		{"healthcare collapse factor", p.HealthcareCollapseFactor},
	}
	for _, f := range factors {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s %v: %w", f.name, f.v, stats.ErrRange)
		}
	}

	if p.OldDefenceLow > p.OldDefenceHigh {
		return fmt.Errorf("old defence ages %d-%d are inverted: %w", p.OldDefenceLow, p.OldDefenceHigh, stats.ErrRange)
	}
	return nil
}
