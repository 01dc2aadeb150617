package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/fundscrape/pkg/fund"
)

// pagePropsPath is where Next.js puts server-side page data.
const pagePropsPath = "props.pageProps"

// Paths below are relative to pageProps. Fund pages ship the same data under
// either fundDetails or fundInfo depending on the page variant.
var scalarPaths = []struct {
	field fund.Field
	paths []string
}{
	{fund.AUMCrore, []string{"fundDetails.aum", "fundInfo.aum"}},
	{fund.ExpenseRatio, []string{"fundDetails.expenseRatio", "fundInfo.expenseRatio"}},
}

var (
	fundAgePaths   = []string{"fundDetails.fundAge", "fundInfo.fundAge", "fundAge"}
	inceptionPaths = []string{"fundDetails.inceptionDate", "fundInfo.inceptionDate", "inceptionDate"}
)

// keyAliases lists the keys a field may appear under inside a container.
type keyAliases struct {
	field fund.Field
	keys  []string
}

// compositeGroup is a nested object (risk metrics, allocation, returns)
// found under the first non-empty container.
type compositeGroup struct {
	containers []string
	fields     []keyAliases
}

var compositeGroups = []compositeGroup{
	{
		containers: []string{"fundDetails.riskMetrics", "fundInfo.riskMetrics"},
		fields: []keyAliases{
			{fund.Alpha, []string{"alpha"}},
			{fund.Sharpe, []string{"sharpe"}},
			{fund.Beta, []string{"beta"}},
			{fund.StdDev, []string{"standardDeviation"}},
		},
	},
	{
		containers: []string{"fundDetails.allocation", "fundInfo.allocation", "allocation"},
		fields: []keyAliases{
			{fund.LargeCapPct, []string{"largeCap"}},
			{fund.MidCapPct, []string{"midCap"}},
			{fund.SmallCapPct, []string{"smallCap"}},
			{fund.OtherCapPct, []string{"otherCap", "other"}},
		},
	},
	{
		containers: []string{"fundDetails.returns", "fundInfo.returns", "returns"},
		fields: []keyAliases{
			{fund.Return1M, []string{"1M", "oneMonth"}},
			{fund.Return3M, []string{"3M", "threeMonth"}},
			{fund.Return6M, []string{"6M", "sixMonth"}},
			{fund.Return1Y, []string{"1Y", "oneYear"}},
			{fund.Return3Y, []string{"3Y", "threeYear"}},
			{fund.Return5Y, []string{"5Y", "fiveYear"}},
			{fund.ReturnSinceInception, []string{"sinceInception", "SI"}},
		},
	},
}

// ExtractStructured fills what it can from an embedded payload.
// Each field is resolved on its own; a bad value leaves only that field absent.
func ExtractStructured(p Payload, now time.Time) fund.Record {
	var rec fund.Record
	props, ok := p.firstMap(pagePropsPath)
	if !ok {
		return rec
	}

	if v, ok := props.lookup("fundName"); ok {
		if name, ok := v.(string); ok {
			rec.Name = strings.TrimSpace(name)
		}
	}

	rec.AgeYears = structuredAge(props, now)

	for _, sp := range scalarPaths {
		rec.Set(sp.field, numericAt(props, sp.paths...))
	}

	for _, g := range compositeGroups {
		container, ok := props.firstMap(g.containers...)
		if !ok {
			continue
		}
		for _, ka := range g.fields {
			rec.Set(ka.field, numericAt(container, ka.keys...))
		}
	}

	return rec
}

// structuredAge prefers an explicit age and falls back to the inception date.
func structuredAge(props Payload, now time.Time) *float64 {
	if v, ok := props.firstValue(fundAgePaths...); ok {
		if s, ok := scalarText(v); ok {
			return normalizeValue(s)
		}
		return nil
	}

	v, ok := props.firstValue(inceptionPaths...)
	if !ok {
		return nil
	}
	s, ok := scalarText(v)
	if !ok {
		return nil
	}
	date, _, _ := strings.Cut(s, "T")
	age, ok := ageFromDate(date, payloadDateLayouts, now)
	if !ok {
		return nil
	}
	return fund.Value(age)
}

// numericAt normalizes the first non-empty value among paths.
func numericAt(p Payload, paths ...string) *float64 {
	v, ok := p.firstValue(paths...)
	if !ok {
		return nil
	}
	s, ok := scalarText(v)
	if !ok {
		return nil
	}
	return normalizeValue(s)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
