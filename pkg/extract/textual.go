package extract

import (
	"regexp"
	"time"

	"github.com/codeGROOVE-dev/fundscrape/pkg/fund"
)

// converter turns a captured string into a field value.
type converter func(raw string, now time.Time) (float64, bool)

func numeric(raw string, _ time.Time) (float64, bool) {
	return Normalize(raw)
}

func inceptionAge(raw string, now time.Time) (float64, bool) {
	return ageFromDate(raw, textDateLayouts, now)
}

// textRule is one labeled-value pattern for a field.
type textRule struct {
	pattern *regexp.Regexp
	group   int
	convert converter
	// keepTrying moves on to the next rule when conversion fails.
	keepTrying bool
}

func rule(expr string) textRule {
	return textRule{pattern: regexp.MustCompile(`(?i)` + expr), group: 1, convert: numeric}
}

// unicodeSpace matches spaces RE2's \s misses, such as U+00A0 from &nbsp;.
var unicodeSpace = regexp.MustCompile(`\p{Zs}`)

// textRules holds the ordered patterns for each field, in record order.
var textRules = []struct {
	field fund.Field
	rules []textRule
}{
	{fund.AgeYears, []textRule{
		{
			pattern:    regexp.MustCompile(`(?i)(?:Fund\s*)?Age\s*[:\-]?\s*([\d,\.]+)\s*(?:years?|yrs?)`),
			group:      1,
			convert:    numeric,
			keepTrying: true,
		},
		{
			pattern: regexp.MustCompile(`(?i)Inception\s*Date\s*[:\-]?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
			group:   1,
			convert: inceptionAge,
		},
	}},
	{fund.AUMCrore, []textRule{
		rule(`AUM\s*(?:\(Fund size\))?\s*[:\-]?\s*₹?\s*([\d,\.]+)\s*Cr`),
		rule(`Fund\s*Size\s*[:\-]?\s*₹?\s*([\d,\.]+)\s*Cr`),
		rule(`Assets\s*Under\s*Management\s*[:\-]?\s*₹?\s*([\d,\.]+)\s*Cr`),
	}},
	{fund.ExpenseRatio, []textRule{
		rule(`Expense\s*Ratio\s*[:\-]?\s*([\d,\.]+)%?`),
		rule(`Total\s*Expense\s*Ratio\s*[:\-]?\s*([\d,\.]+)%?`),
	}},
	{fund.Alpha, []textRule{rule(`Alpha\s*[:\-]?\s*([\-\d,\.]+)`)}},
	{fund.Sharpe, []textRule{rule(`Sharpe\s*(?:Ratio)?\s*[:\-]?\s*([\-\d,\.]+)`)}},
	{fund.Beta, []textRule{rule(`Beta\s*[:\-]?\s*([\-\d,\.]+)`)}},
	{fund.StdDev, []textRule{rule(`(?:Standard\s*Deviation|SD|Std\.?\s*Dev\.?)\s*[:\-]?\s*([\-\d,\.]+)`)}},
	{fund.LargeCapPct, []textRule{rule(`Large\s*Cap\s*[:\-]?\s*([\d,\.]+)%?`)}},
	{fund.MidCapPct, []textRule{rule(`Mid\s*Cap\s*[:\-]?\s*([\d,\.]+)%?`)}},
	{fund.SmallCapPct, []textRule{rule(`Small\s*Cap\s*[:\-]?\s*([\d,\.]+)%?`)}},
	{fund.OtherCapPct, []textRule{rule(`Other\s*Cap\s*[:\-]?\s*([\d,\.]+)%?`)}},
	{fund.Return1M, []textRule{rule(`(?:1\s*Month|1M)\s*[:\-]?\s*([\-\d,\.]+)%?`)}},
	{fund.Return3M, []textRule{rule(`(?:3\s*Months?|3M)\s*[:\-]?\s*([\-\d,\.]+)%?`)}},
	{fund.Return6M, []textRule{rule(`(?:6\s*Months?|6M)\s*[:\-]?\s*([\-\d,\.]+)%?`)}},
	{fund.Return1Y, []textRule{rule(`(?:1\s*Year|1Y)\s*[:\-]?\s*([\-\d,\.]+)%?`)}},
	{fund.Return3Y, []textRule{rule(`(?:3\s*Years?|3Y)\s*[:\-]?\s*([\-\d,\.]+)%?`)}},
	{fund.Return5Y, []textRule{rule(`(?:5\s*Years?|5Y)\s*[:\-]?\s*([\-\d,\.]+)%?`)}},
	{fund.ReturnSinceInception, []textRule{rule(`(?:Since\s*Inception|SI)\s*[:\-]?\s*([\-\d,\.]+)%?`)}},
}

// ExtractTextual fills fields absent in partial by scanning visible page text.
// Fields already set in partial are left alone. partial is not modified.
func ExtractTextual(text string, partial fund.Record, now time.Time) fund.Record {
	out := partial
	text = unicodeSpace.ReplaceAllString(text, " ")
	if text == "" {
		return out
	}
	for _, tr := range textRules {
		if out.Has(tr.field) {
			continue
		}
		out.Set(tr.field, matchField(text, tr.rules, now))
	}
	return out
}

// matchField applies rules in priority order; the first matching rule decides.
func matchField(text string, rules []textRule, now time.Time) *float64 {
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(text)
		if len(m) <= r.group {
			continue
		}
		if v, ok := r.convert(m[r.group], now); ok {
			return fund.Value(v)
		}
		if !r.keepTrying {
			return nil
		}
	}
	return nil
}
