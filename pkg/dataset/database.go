package dataset

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"github.com/anrid/covid-qaly/pkg/stats"
)

//go:embed data
var defaultData embed.FS

// Logger receives progress lines while source files are loaded.
var Logger = log.New(os.Stderr, "", 0)

func defaultFS() fs.FS {
	sub, err := fs.Sub(defaultData, "data")
	if err != nil {
		panic(err)
	}
	return sub
}

// Study names the source file of one published IFR study. The position in
// StudySources is the scenario index.
type Study struct {
	Name string
	File string
}

var StudySources = []Study{
	{Name: "O'Driscoll et al.", File: "ifr_odriscoll"},
	{Name: "Verity et al.", File: "ifr_verity"},
	{Name: "Levin et al.", File: "ifr_levin"},
}

// Database holds every static reference table a scenario run reads.
// It is never modified by a run.
type Database struct {
	Source          string
	Population      []stats.PopulationRow
	Studies         []stats.IFRStudy
	HALE            []stats.HALERow
	Hospitalization []stats.HospitalizationRow
	Deaths          []stats.DeathReport
	Calibration     Calibration
	Loaded          time.Time
}

func NewDatabase(source string) *Database {
	return &Database{Source: source}
}

// Default returns the database built from the embedded reference files.
func Default() (*Database, error) {
	db := NewDatabase("embedded")
	if err := db.Load(defaultFS()); err != nil {
		return nil, err
	}
	return db, nil
}

// LoadDir builds a database from the reference files in dir. Tables missing
// from dir, and the calibration if there is no calibration.toml, fall back
// to the embedded defaults.
func LoadDir(dir string) (*Database, error) {
	db := NewDatabase(dir)
	db.Calibration = DefaultCalibration()
	if err := db.Load(overlayFS{os.DirFS(dir), defaultFS()}); err != nil {
		return nil, err
	}
	return db, nil
}

// Load parses every reference table from fsys.
func (db *Database) Load(fsys fs.FS) error {
	open := func(base, title string) (*File, error) {
		f, layer, found := findFile(fsys, base, title)
		if !found {
			return nil, fmt.Errorf("no source file for %s (%s): %w", title, base, stats.ErrDataShape)
		}
		return f, f.ReadContent(layer)
	}

	f, err := open("population", "Population by Age")
	if err != nil {
		return err
	}
	if db.Population, err = ParsePopulation(f); err != nil {
		return err
	}

	db.Studies = nil
	for i, s := range StudySources {
		f, err := open(s.File, "IFR "+s.Name)
		if err != nil {
			return err
		}
		rows, err := ParseIFR(f)
		if err != nil {
			return err
		}
		db.Studies = append(db.Studies, stats.IFRStudy{Index: i, Name: s.Name, Rows: rows})
	}

	if f, err = open("hale", "HALE by Age"); err != nil {
		return err
	}
	if db.HALE, err = ParseHALE(f); err != nil {
		return err
	}

	if f, err = open("hospitalized", "Hospitalized (Thousands)"); err != nil {
		return err
	}
	if db.Hospitalization, err = ParseHospitalizations(f); err != nil {
		return err
	}

	if f, err = open("deaths", "Death Reports"); err != nil {
		return err
	}
	if db.Deaths, err = ParseDeaths(f); err != nil {
		return err
	}

	if db.Calibration, err = LoadCalibration(fsys, calibrationFile, db.Calibration); err != nil {
		return err
	}

	db.Loaded = time.Now()
	return db.Check()
}

// Check validates the shape of every table.
func (db *Database) Check() error {
	if err := stats.ValidateAscending(db.Population); err != nil {
		return fmt.Errorf("population: %w", err)
	}
	for _, s := range db.Studies {
		if err := stats.Validate(s.Rows); err != nil {
			return fmt.Errorf("ifr %s: %w", s.Name, err)
		}
	}
	if err := stats.ValidateAscending(db.HALE); err != nil {
		return fmt.Errorf("hale: %w", err)
	}
	if err := stats.Validate(db.Hospitalization); err != nil {
		return fmt.Errorf("hospitalization: %w", err)
	}
	return nil
}

// Study returns the IFR study with the given scenario index.
func (db *Database) Study(i int) (stats.IFRStudy, error) {
	if i < 0 || i >= len(db.Studies) {
		return stats.IFRStudy{}, fmt.Errorf("ifr scenario %d, want 0-%d: %w", i, len(db.Studies)-1, stats.ErrValue)
	}
	return db.Studies[i], nil
}

func LoadIfExists(dbFile string) (db *Database, found bool, err error) {
	data, err := os.ReadFile(dbFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	db = new(Database)
	if err := json.Unmarshal(data, db); err != nil {
		return nil, false, fmt.Errorf("could not decode database %s: %w", dbFile, err)
	}
	if err := db.Check(); err != nil {
		return nil, false, err
	}
	return db, true, nil
}

func (db *Database) Save(dbFile string) error {
	js, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dbFile), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dbFile, js, 0o644)
}

func (db *Database) Info(w io.Writer) {
	fmt.Fprintf(w, `
	Source          : %s
	Loaded          : %s
	Population      : %d ages, %.f people
	IFR studies     : %d
	HALE rows       : %d
	Hospitalization : %d rows
	Death reports   : %d
	Calibration     : %d -> %d, GDP per capita %.f %s
	`, db.Source, db.Loaded.Format(time.RFC3339),
		len(db.Population), stats.TotalPopulation(db.Population),
		len(db.Studies), len(db.HALE), len(db.Hospitalization), len(db.Deaths),
		db.Calibration.MidYear, db.Calibration.FinalYear,
		db.Calibration.GDPPerCapita, db.Calibration.Currency)
	fmt.Fprintln(w, "")
}

// overlayFS serves names from the first filesystem that has them.
type overlayFS []fs.FS

func (o overlayFS) Open(name string) (fs.File, error) {
	var firstErr error
	for _, fsys := range o {
		f, err := fsys.Open(name)
		if err == nil {
			return f, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
