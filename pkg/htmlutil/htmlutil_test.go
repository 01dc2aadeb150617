package htmlutil

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestVisibleText(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "table cells are separated",
			html: `<table><tr><td>Alpha</td><td>1.2</td></tr><tr><td>Beta</td><td>0.9</td></tr></table>`,
			want: "Alpha 1.2 Beta 0.9",
		},
		{
			name: "script and style skipped",
			html: `<html><head><style>.x{color:red}</style><script>var aum = "1 Cr";</script></head><body><p>Fund Size ₹1,234 Cr</p></body></html>`,
			want: "Fund Size ₹1,234 Cr",
		},
		{
			name: "whitespace collapsed",
			html: "<div>Sharpe\n\n   Ratio:\t 1.25</div>",
			want: "Sharpe Ratio: 1.25",
		},
		{
			name: "non-breaking spaces become plain spaces",
			html: `<div>AUM:&nbsp;₹&nbsp;5,000 Cr</div><div>&nbsp;Beta&nbsp;&nbsp;0.9&nbsp;</div>`,
			want: "AUM: ₹ 5,000 Cr Beta 0.9",
		},
		{
			name: "entities decoded",
			html: `<p>Large &amp; Mid Cap</p>`,
			want: "Large & Mid Cap",
		},
		{
			name: "empty document",
			html: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisibleText(mustParse(t, tt.html)); got != tt.want {
				t.Errorf("VisibleText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "og:title preferred",
			html: `<head><title>Site</title><meta property="og:title" content=" Quant Active Fund "></head><body><h1>Heading</h1></body>`,
			want: "Quant Active Fund",
		},
		{
			name: "h1 before title",
			html: `<head><title>Site</title></head><body><h1> Heading </h1></body>`,
			want: "Heading",
		},
		{
			name: "title last",
			html: `<head><title>Only Title</title></head>`,
			want: "Only Title",
		},
		{
			name: "empty og:title ignored",
			html: `<head><meta property="og:title" content=""><title>T</title></head>`,
			want: "T",
		},
		{
			name: "nothing",
			html: `<p>x</p>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(mustParse(t, tt.html)); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFundLinks(t *testing.T) {
	html := `<html><body>
		<a href="/mutual-funds/quant-active-fund-direct-growth/123">Quant</a>
		<a href="/mutual-funds/quant-active-fund-direct-growth/123">Quant again</a>
		<a href="/mutual-funds/equity/flexi-cap/79">Category</a>
		<a href="/mutual-funds/parag-parikh-flexi-cap/456">PPFAS</a>
		<a href="https://www.etmoney.com/mutual-funds/abs/789">Absolute</a>
		<a href="#top">Top</a>
		<a>No href</a>
	</body></html>`

	got := FundLinks(mustParse(t, html), "https://www.etmoney.com")
	want := []string{
		"https://www.etmoney.com/mutual-funds/quant-active-fund-direct-growth/123",
		"https://www.etmoney.com/mutual-funds/parag-parikh-flexi-cap/456",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FundLinks() mismatch (-want +got):\n%s", diff)
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<b>Axis</b> Bluechip &amp; Co", "Axis Bluechip & Co"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripTags(tt.in); got != tt.want {
			t.Errorf("StripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
