// Package fund defines the canonical mutual fund record produced by extraction.
package fund

import "math"

// Field names a metric column of a Record.
type Field string

// Metric fields, named after their CSV columns.
const (
	AgeYears             Field = "fund_age_years"
	AUMCrore             Field = "aum_cr"
	ExpenseRatio         Field = "expense_ratio"
	Alpha                Field = "alpha"
	Sharpe               Field = "sharpe"
	Beta                 Field = "beta"
	StdDev               Field = "sd"
	LargeCapPct          Field = "large_cap_pct"
	MidCapPct            Field = "mid_cap_pct"
	SmallCapPct          Field = "small_cap_pct"
	OtherCapPct          Field = "other_cap_pct"
	Return1M             Field = "return_1m"
	Return3M             Field = "return_3m"
	Return6M             Field = "return_6m"
	Return1Y             Field = "return_1y"
	Return3Y             Field = "return_3y"
	Return5Y             Field = "return_5y"
	ReturnSinceInception Field = "return_since_inception"
)

// Identity column names.
const (
	NameColumn = "fund_name"
	URLColumn  = "fund_url"
)

// Fields lists every metric field in record order.
var Fields = []Field{
	AgeYears, AUMCrore, ExpenseRatio,
	Alpha, Sharpe, Beta, StdDev,
	LargeCapPct, MidCapPct, SmallCapPct, OtherCapPct,
	Return1M, Return3M, Return6M, Return1Y, Return3Y, Return5Y, ReturnSinceInception,
}

// Columns returns the full CSV header: identity columns followed by every metric field.
func Columns() []string {
	cols := make([]string, 0, len(Fields)+2)
	cols = append(cols, NameColumn, URLColumn)
	for _, f := range Fields {
		cols = append(cols, string(f))
	}
	return cols
}

// Record is one fund's extracted metrics.
// A nil metric means the value is unknown; it is never coerced to zero.
//
//nolint:govet // fieldalignment: column order matters more than packing
type Record struct {
	Name string `json:"fund_name"` // Display name, empty when unknown
	URL  string `json:"fund_url"`  // Fund page URL exactly as requested

	AgeYears     *float64 `json:"fund_age_years"`
	AUMCrore     *float64 `json:"aum_cr"`
	ExpenseRatio *float64 `json:"expense_ratio"`

	Alpha  *float64 `json:"alpha"`
	Sharpe *float64 `json:"sharpe"`
	Beta   *float64 `json:"beta"`
	StdDev *float64 `json:"sd"`

	LargeCapPct *float64 `json:"large_cap_pct"`
	MidCapPct   *float64 `json:"mid_cap_pct"`
	SmallCapPct *float64 `json:"small_cap_pct"`
	OtherCapPct *float64 `json:"other_cap_pct"`

	Return1M             *float64 `json:"return_1m"`
	Return3M             *float64 `json:"return_3m"`
	Return6M             *float64 `json:"return_6m"`
	Return1Y             *float64 `json:"return_1y"`
	Return3Y             *float64 `json:"return_3y"`
	Return5Y             *float64 `json:"return_5y"`
	ReturnSinceInception *float64 `json:"return_since_inception"`
}

// Empty returns a record with every metric absent.
func Empty(url string) Record {
	return Record{URL: url}
}

// Value returns a pointer to v, or nil if v is not finite.
func Value(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (r *Record) slot(f Field) **float64 {
	switch f {
	case AgeYears:
		return &r.AgeYears
	case AUMCrore:
		return &r.AUMCrore
	case ExpenseRatio:
		return &r.ExpenseRatio
	case Alpha:
		return &r.Alpha
	case Sharpe:
		return &r.Sharpe
	case Beta:
		return &r.Beta
	case StdDev:
		return &r.StdDev
	case LargeCapPct:
		return &r.LargeCapPct
	case MidCapPct:
		return &r.MidCapPct
	case SmallCapPct:
		return &r.SmallCapPct
	case OtherCapPct:
		return &r.OtherCapPct
	case Return1M:
		return &r.Return1M
	case Return3M:
		return &r.Return3M
	case Return6M:
		return &r.Return6M
	case Return1Y:
		return &r.Return1Y
	case Return3Y:
		return &r.Return3Y
	case Return5Y:
		return &r.Return5Y
	case ReturnSinceInception:
		return &r.ReturnSinceInception
	default:
		return nil
	}
}

// Get returns the value of f, or nil when absent or unknown.
func (r *Record) Get(f Field) *float64 {
	if s := r.slot(f); s != nil {
		return *s
	}
	return nil
}

// Set stores v for f. Unknown fields are ignored.
func (r *Record) Set(f Field, v *float64) {
	if s := r.slot(f); s != nil {
		*s = v
	}
}

// Has reports whether f holds a value.
func (r *Record) Has(f Field) bool {
	return r.Get(f) != nil
}

// Merge combines two partial records field by field.
// Values from primary win; fallback only fills what primary lacks.
// URL and Name follow the same rule.
func Merge(primary, fallback Record) Record {
	out := primary
	if out.URL == "" {
		out.URL = fallback.URL
	}
	if out.Name == "" {
		out.Name = fallback.Name
	}
	for _, f := range Fields {
		if out.Get(f) == nil {
			out.Set(f, fallback.Get(f))
		}
	}
	return out
}

// Unresolved lists the columns still unknown in r, in record order.
// fund_url is never reported.
func Unresolved(r Record) []string {
	var missing []string
	if r.Name == "" {
		missing = append(missing, NameColumn)
	}
	for _, f := range Fields {
		if r.Get(f) == nil {
			missing = append(missing, string(f))
		}
	}
	return missing
}
