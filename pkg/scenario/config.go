package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents a scenario configuration file.
type FileConfig struct {
	Scenario ScenarioConfig `toml:"scenario" yaml:"scenario"`
}

// ScenarioConfig maps scenario parameters. Absent keys are nil.
type ScenarioConfig struct {
	IFRScenario              *int     `toml:"ifr_scenario" yaml:"ifr_scenario"`
	QALYValueMultiplier      *float64 `toml:"qaly_value_multiplier" yaml:"qaly_value_multiplier"`
	HerdImmunityThreshold    *float64 `toml:"herd_immunity_threshold" yaml:"herd_immunity_threshold"`
	OldDefenceFactor         *float64 `toml:"old_defence_factor" yaml:"old_defence_factor"`
	OldDefenceLow            *int     `toml:"old_defence_low" yaml:"old_defence_low"`
	OldDefenceHigh           *int     `toml:"old_defence_high" yaml:"old_defence_high"`
	CoronaComorbidity        *float64 `toml:"corona_co_mo_fa" yaml:"corona_co_mo_fa"`
	HospitalizedComorbidity  *float64 `toml:"hospitalized_co_mo_fa" yaml:"hospitalized_co_mo_fa"`
	HealthcareCollapseFactor *float64 `toml:"healthcare_collapse_factor" yaml:"healthcare_collapse_factor"`
	LockdownPreventionFactor *float64 `toml:"lockdown_prevention_factor" yaml:"lockdown_prevention_factor"`
}

// LoadConfig reads a TOML or YAML config, picked by extension. A missing
// file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml", "":
		_, err = toml.Decode(string(data), &cfg)
	default:
		return FileConfig{}, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply copies every key set in c onto p.
func (c ScenarioConfig) Apply(p *Parameters) {
	setInt(&p.IFRScenario, c.IFRScenario)
	setFloat(&p.QALYValueMultiplier, c.QALYValueMultiplier)
	setFloat(&p.HerdImmunityThreshold, c.HerdImmunityThreshold)
	setFloat(&p.OldDefenceFactor, c.OldDefenceFactor)
	setInt(&p.OldDefenceLow, c.OldDefenceLow)
	setInt(&p.OldDefenceHigh, c.OldDefenceHigh)
	setFloat(&p.CoronaComorbidity, c.CoronaComorbidity)
	setFloat(&p.HospitalizedComorbidity, c.HospitalizedComorbidity)
	setFloat(&p.HealthcareCollapseFactor, c.HealthcareCollapseFactor)
	setFloat(&p.LockdownPreventionFactor, c.LockdownPreventionFactor)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
