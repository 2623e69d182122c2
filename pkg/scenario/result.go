package scenario

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/anrid/covid-qaly/pkg/stats"
)

// Result carries the outcome of a run and the figures it was built from.
type Result struct {
	Parameters       Parameters      `json:"parameters"`
	Study            string          `json:"study"`
	IFR              float64         `json:"ifr"`
	Population       float64         `json:"population"`
	ExpectedDeaths   float64         `json:"expected_deaths"`
	MeanQALYPerDeath float64         `json:"mean_qaly_per_death"`
	QALYLostDeaths   float64         `json:"qaly_lost_deaths"`
	QALYLostCollapse float64         `json:"qaly_lost_collapse"`
	QALYUnitValue    decimal.Decimal `json:"qaly_unit_value"`
	Value            int64           `json:"value"`
	Currency         string          `json:"currency"`

	IFRRows      []stats.IFRRow      `json:"ifr_rows,omitempty"`
	DeathReports []stats.DeathReport `json:"-"`
}

// QALYLost is the total QALY lost from deaths and from healthcare collapse.
func (r *Result) QALYLost() float64 {
	return r.QALYLostDeaths + r.QALYLostCollapse
}

// Format renders the value with the grouping separators of lang followed by
// the currency, e.g. "28,603,627,500 NIS".
func (r *Result) Format(lang language.Tag) string {
	p := message.NewPrinter(lang)
	return p.Sprintf("%d %s", r.Value, r.Currency)
}
