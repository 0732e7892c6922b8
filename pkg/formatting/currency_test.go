package formatting

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "1234.56", 1234.56},
		{"grouped", "1,234.56", 1234.56},
		{"dollar sign", "$500.00", 500},
		{"us dollar marker", "US$1,000.00", 1000},
		{"usd marker", "USD 2,500.00", 2500},
		{"parenthesized negative", "($35.00)", -35},
		{"leading minus", "-125.50", -125.50},
		{"surrounding space", "  750.00  ", 750},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			if err != nil {
				t.Fatalf("ParseAmount(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseAmount(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		if _, err := ParseAmount("not money"); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{"small", 35, "35.00"},
		{"thousands", 1234.56, "1,234.56"},
		{"millions", 1234567.8, "1,234,567.80"},
		{"negative", -500, "-500.00"},
		{"zero", 0, "0.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Currency(tc.input); got != tc.want {
				t.Errorf("Currency(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeCurrency(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dollar prefix", "$1,234.56", "1,234.56"},
		{"parenthesized", "(500.00)", "-500.00"},
		{"already normal", "42.00", "42.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeCurrency(tc.input)
			if err != nil {
				t.Fatalf("NormalizeCurrency(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("NormalizeCurrency(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

// Formatted amounts must reparse to the value they were formatted from, so
// amounts survive the extract-format-submit round trip unchanged.
func TestCurrencyRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 35, 999.99, 1000, 1234.56, -1234.56, 1000000, -0.01} {
		got, err := ParseAmount(Currency(v))
		if err != nil {
			t.Fatalf("ParseAmount(Currency(%v)) returned error: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip of %v produced %v", v, got)
		}
	}
}
