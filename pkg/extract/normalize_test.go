package extract

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   float64
		wantOK bool
	}{
		{"rupee crore", "₹1,234.56 Cr", 1234.56, true},
		{"negative percent", "-2.3%", -2.3, true},
		{"empty", "", 0, false},
		{"not available", "N/A", 0, false},
		{"whitespace only", "  \t ", 0, false},
		{"plain integer", "2500", 2500, true},
		{"dollar", "$ 12.5", 12.5, true},
		{"euro and pound", "€1,000 £", 1000, true},
		{"inner spaces", "1 234", 1234, true},
		{"crore spelled out", "45,000 crore", 45000, true},
		{"lowercase cr with dot", "12.3 cr.", 12.3, true},
		{"dash", "-", 0, false},
		{"lone dot", ".", 0, false},
		{"nan rejected", "NaN", 0, false},
		{"inf rejected", "Inf", 0, false},
		{"two dots", "1.2.3", 0, false},
		{"zero", "0.00%", 0, true},
		{"nbsp after rupee", "₹\u00a01,234.56", 1234.56, true},
		{"nbsp before percent", "12.5\u00a0%", 12.5, true},
		{"nbsp before crore", "5,000\u00a0Cr", 5000, true},
		{"narrow nbsp thousands", "1\u202f234", 1234, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// Well-formed numbers wrapped in currency/percent noise normalize to the
// value of their bare digits.
func TestNormalizeNoisyNumbers(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	prefixes := []string{"", "₹", "$", "€", "£", "₹ ", " "}
	suffixes := []string{"", "%", " %", " ", " Cr"}

	for range 500 {
		core := randomNumber(rng)
		want, err := strconv.ParseFloat(core, 64)
		if err != nil {
			t.Fatalf("bad generated number %q: %v", core, err)
		}
		noisy := prefixes[rng.IntN(len(prefixes))] + withThousands(core) + suffixes[rng.IntN(len(suffixes))]

		got, ok := Normalize(noisy)
		if !ok || got != want {
			t.Errorf("Normalize(%q) = %v, %v; want %v, true", noisy, got, ok, want)
		}
	}
}

func randomNumber(rng *rand.Rand) string {
	var b strings.Builder
	if rng.IntN(2) == 0 {
		b.WriteByte('-')
	}
	b.WriteString(strconv.Itoa(rng.IntN(10_000_000)))
	if rng.IntN(2) == 0 {
		b.WriteByte('.')
		for range 1 + rng.IntN(4) {
			b.WriteByte(byte('0' + rng.IntN(10)))
		}
	}
	return b.String()
}

// withThousands inserts commas into the integer part of s.
func withThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return sign + b.String()
}
