// Command show prices the QALY lost in an epidemic scenario.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/anrid/covid-qaly/pkg/dataset"
	"github.com/anrid/covid-qaly/pkg/scenario"
)

const covidQALYDatabase = "/tmp/covid-qaly.json"

var (
	params = scenario.Defaults()

	configPath  string
	dbFile      string
	dataDir     string
	lang        string
	asJSON      bool
	showTables  bool
	dump        bool
	allStudies  bool
	listStudies bool
	quiet       bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "show",
		Short:        "Estimate the value of QALY lost in an epidemic scenario",
		SilenceUsage: true,
		RunE:         runShow,
	}

	f := cmd.Flags()
	f.IntVar(&params.IFRScenario, "ifr-scenario", scenario.DefaultIFRScenario, "IFR study: 0 O'Driscoll, 1 Verity, 2 Levin")
	f.Float64Var(&params.QALYValueMultiplier, "qaly-value-multiplier", scenario.DefaultQALYValueMultiplier, "price of one QALY in GDP per capita")
	f.Float64Var(&params.HerdImmunityThreshold, "herd-immunity-threshold", scenario.DefaultHerdImmunityThreshold, "share of the population infected (0-1)")
	f.Float64Var(&params.OldDefenceFactor, "old-defence-factor", scenario.DefaultOldDefenceFactor, "share of the protected ages still infected")
	f.IntVar(&params.OldDefenceLow, "old-defence-low", scenario.DefaultOldDefenceLow, "first protected age")
	f.IntVar(&params.OldDefenceHigh, "old-defence-high", scenario.DefaultOldDefenceHigh, "last protected age")
	f.Float64Var(&params.CoronaComorbidity, "corona-co-mo-fa", scenario.DefaultCoronaComorbidity, "comorbidity factor of epidemic deaths")
	f.Float64Var(&params.HospitalizedComorbidity, "hospitalized-co-mo-fa", scenario.DefaultHospitalizedComorbidity, "comorbidity factor of hospital deaths")
	f.Float64Var(&params.HealthcareCollapseFactor, "healthcare-collapse-factor", scenario.DefaultHealthcareCollapseFactor, "relative increase of hospital deaths")
	f.Float64Var(&params.LockdownPreventionFactor, "lockdown-prevention-factor", scenario.DefaultLockdownPreventionFactor, "scale applied to expected deaths")

	f.StringVar(&configPath, "config", "", "scenario config file (toml or yaml)")
	f.StringVar(&dbFile, "db", covidQALYDatabase, "database snapshot written by create")
	f.StringVar(&dataDir, "data", "", "directory of source tables, instead of the snapshot")
	f.StringVar(&lang, "lang", "en", "language used to format numbers")
	f.BoolVar(&asJSON, "json", false, "print results as JSON")
	f.BoolVar(&showTables, "tables", false, "print the projected HALE and hospitalization tables")
	f.BoolVar(&dump, "dump", false, "dump intermediate tables")
	f.BoolVar(&allStudies, "all-studies", false, "run the scenario for every IFR study")
	f.BoolVar(&listStudies, "list-studies", false, "list IFR studies and exit")
	f.BoolVar(&quiet, "quiet", false, "do not log source file loading")

	return cmd
}

func runShow(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	if quiet || asJSON {
		dataset.Logger.SetOutput(io.Discard)
	}

	if configPath != "" {
		fileCfg, err := scenario.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyConfig(cmd, fileCfg.Scenario)
	}

	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("invalid language %q: %w", lang, err)
	}
	p := message.NewPrinter(tag)

	db, err := loadDatabase()
	if err != nil {
		return err
	}

	if listStudies {
		for _, s := range db.Studies {
			p.Fprintf(out, "%d. %s (%d age brackets)\n", s.Index, s.Name, len(s.Rows))
		}
		return nil
	}

	e := scenario.New(db)

	if showTables {
		if err := printTables(out, p, e); err != nil {
			return err
		}
	}

	runs := []scenario.Parameters{params}
	if allStudies {
		runs = nil
		for i := range db.Studies {
			sp := params
			sp.IFRScenario = i
			runs = append(runs, sp)
		}
	}

	results, err := e.RunAll(context.Background(), runs)
	if err != nil {
		return err
	}

	if dump {
		spew.Fdump(out, results)
	}

	if asJSON {
		js, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(js))
		return nil
	}

	for _, r := range results {
		if allStudies || showTables {
			p.Fprintf(out, "\n%s: IFR %.3f%%, %.f deaths, %.f QALY lost (%.f deaths, %.f collapse)\n",
				r.Study, r.IFR*100, r.ExpectedDeaths, r.QALYLost(), r.QALYLostDeaths, r.QALYLostCollapse)
		}
		fmt.Fprintln(out, r.Format(tag))
	}
	return nil
}

func loadDatabase() (*dataset.Database, error) {
	if dataDir != "" {
		db, err := dataset.LoadDir(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load source tables: %w", err)
		}
		return db, nil
	}
	db, found, err := dataset.LoadIfExists(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if found {
		return db, nil
	}
	return dataset.Default()
}

func printTables(out io.Writer, p *message.Printer, e *scenario.Engine) error {
	hale, err := e.HALE()
	if err != nil {
		return err
	}
	hos, err := e.Hospitalizations()
	if err != nil {
		return err
	}

	p.Fprintln(out, "Projected HALE:")
	for _, r := range hale {
		p.Fprintf(out, "%-7s  --  %6.2f  %6.2f\n", r.Label(), r.Males, r.Females)
	}

	p.Fprintln(out, "\nProjected Hospitalizations:")
	for _, r := range hos {
		p.Fprintf(out, "%-7s  --  %9.f  %9.f  %-5.3f  %-5.3f\n",
			r.Label(), r.Males, r.Females, r.DeathsMales, r.DeathsFemales)
	}
	return nil
}

func applyConfig(cmd *cobra.Command, c scenario.ScenarioConfig) {
	applyIntConfig(cmd, "ifr-scenario", &params.IFRScenario, c.IFRScenario)
	applyFloatConfig(cmd, "qaly-value-multiplier", &params.QALYValueMultiplier, c.QALYValueMultiplier)
	applyFloatConfig(cmd, "herd-immunity-threshold", &params.HerdImmunityThreshold, c.HerdImmunityThreshold)
	applyFloatConfig(cmd, "old-defence-factor", &params.OldDefenceFactor, c.OldDefenceFactor)
	applyIntConfig(cmd, "old-defence-low", &params.OldDefenceLow, c.OldDefenceLow)
	applyIntConfig(cmd, "old-defence-high", &params.OldDefenceHigh, c.OldDefenceHigh)
	applyFloatConfig(cmd, "corona-co-mo-fa", &params.CoronaComorbidity, c.CoronaComorbidity)
	applyFloatConfig(cmd, "hospitalized-co-mo-fa", &params.HospitalizedComorbidity, c.HospitalizedComorbidity)
	applyFloatConfig(cmd, "healthcare-collapse-factor", &params.HealthcareCollapseFactor, c.HealthcareCollapseFactor)
	applyFloatConfig(cmd, "lockdown-prevention-factor", &params.LockdownPreventionFactor, c.LockdownPreventionFactor)
}

func applyIntConfig(cmd *cobra.Command, name string, target *int, value *int) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target *float64, value *float64) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}
