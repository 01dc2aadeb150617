package extract

import (
	"testing"

	"github.com/codeGROOVE-dev/fundscrape/pkg/htmlutil"
)

func TestLocatePayload(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		wantFound bool
		wantErr   bool
	}{
		{
			name:      "valid island",
			html:      `<html><body><script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"fundName":"X"}}}</script></body></html>`,
			wantFound: true,
		},
		{
			name: "no island",
			html: `<html><body><p>AUM 100 Cr</p></body></html>`,
		},
		{
			name: "wrong type attribute",
			html: `<script id="__NEXT_DATA__" type="text/javascript">{"props":{}}</script>`,
		},
		{
			name: "empty body",
			html: `<script id="__NEXT_DATA__" type="application/json">   </script>`,
		},
		{
			name:    "malformed json",
			html:    `<script id="__NEXT_DATA__" type="application/json">{"props": {</script>`,
			wantErr: true,
		},
		{
			name: "json null",
			html: `<script id="__NEXT_DATA__" type="application/json">null</script>`,
		},
		{
			name:    "json array is not a payload",
			html:    `<script id="__NEXT_DATA__" type="application/json">[1,2]</script>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := htmlutil.Parse(tt.html)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			p, found, err := LocatePayload(doc)
			if (err != nil) != tt.wantErr {
				t.Errorf("LocatePayload() error = %v, wantErr %v", err, tt.wantErr)
			}
			if found != tt.wantFound {
				t.Errorf("LocatePayload() found = %v, want %v", found, tt.wantFound)
			}
			if found && p == nil {
				t.Error("LocatePayload() found but payload is nil")
			}
		})
	}
}

func TestPayloadFirstValue(t *testing.T) {
	p := Payload{
		"a": map[string]any{"empty": "", "blank": "  ", "zero": float64(0), "list": []any{}, "obj": map[string]any{}},
		"b": map[string]any{"value": "42"},
		"s": "scalar",
	}

	tests := []struct {
		name  string
		paths []string
		want  any
		found bool
	}{
		{"skips empty string", []string{"a.empty", "b.value"}, "42", true},
		{"skips blank string", []string{"a.blank", "b.value"}, "42", true},
		{"zero is a value", []string{"a.zero", "b.value"}, float64(0), true},
		{"skips empty list and map", []string{"a.list", "a.obj", "b.value"}, "42", true},
		{"missing path", []string{"x.y", "a.missing"}, nil, false},
		{"walks through scalar", []string{"s.deeper"}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := p.firstValue(tt.paths...)
			if found != tt.found || got != tt.want {
				t.Errorf("firstValue(%v) = %v, %v; want %v, %v", tt.paths, got, found, tt.want, tt.found)
			}
		})
	}
}
