// Package cli provides the command-line interface for the pricing application.
package cli

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"quantpricer/internal/pricing"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{10.4506, "$10.4506"},
		{0, "$0.0000"},
		{100, "$100.0000"},
		{math.NaN(), "n/a"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.value); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatGreek(t *testing.T) {
	if got := FormatGreek(0.63683); got != "0.6368" {
		t.Errorf("FormatGreek(0.63683) = %q, want 0.6368", got)
	}
	// Small magnitudes keep extra precision
	if got := FormatGreek(0.0018762); got != "0.001876" {
		t.Errorf("FormatGreek(0.0018762) = %q, want 0.001876", got)
	}
	if got := FormatGreek(math.NaN()); got != "n/a" {
		t.Errorf("FormatGreek(NaN) = %q, want n/a", got)
	}
}

func TestFormatVol(t *testing.T) {
	if got := FormatVol(0.2); got != "20.00%" {
		t.Errorf("FormatVol(0.2) = %q, want 20.00%%", got)
	}
	if got := FormatVol(1.5); got != "150.00%" {
		t.Errorf("FormatVol(1.5) = %q, want 150.00%%", got)
	}
}

func TestFormatExpiry(t *testing.T) {
	if got := FormatExpiry(1.0); got != "1.00y" {
		t.Errorf("FormatExpiry(1.0) = %q, want 1.00y", got)
	}
	if !strings.Contains(FormatExpiry(1.0/365), "days") {
		t.Errorf("expected short expiries in days, got %q", FormatExpiry(1.0/365))
	}
}

func TestFormatMoneyness(t *testing.T) {
	tests := []struct {
		spot, strike float64
		optionType   pricing.OptionType
		want         string
	}{
		{110, 100, pricing.Call, "ITM"},
		{90, 100, pricing.Call, "OTM"},
		{100, 100, pricing.Call, "ATM"},
		{90, 100, pricing.Put, "ITM"},
		{110, 100, pricing.Put, "OTM"},
	}

	for _, tt := range tests {
		if got := FormatMoneyness(tt.spot, tt.strike, tt.optionType); got != tt.want {
			t.Errorf("FormatMoneyness(%v, %v, %v) = %q, want %q", tt.spot, tt.strike, tt.optionType, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)
	if got := FormatDate(d); got != "05 Mar 2024" {
		t.Errorf("FormatDate = %q, want 05 Mar 2024", got)
	}
	if got := FormatTime(d); got != "14:30:00" {
		t.Errorf("FormatTime = %q, want 14:30:00", got)
	}
}

// For any finite value, formatted output parses back to within display
// precision and carries the currency prefix.
func TestPropertyPriceFormattingRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatPrice keeps the dollar prefix and 4 decimals", prop.ForAll(
		func(value float64) bool {
			formatted := FormatPrice(value)
			if !strings.HasPrefix(formatted, "$") && !strings.HasPrefix(formatted, "-$") {
				t.Logf("Expected $ prefix for %f, got %s", value, formatted)
				return false
			}
			parts := strings.Split(formatted, ".")
			if len(parts) != 2 || len(parts[1]) != 4 {
				t.Logf("Expected 4 decimal places for %f, got %s", value, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("FormatVol scales by 100", prop.ForAll(
		func(sigma float64) bool {
			formatted := FormatVol(sigma)
			if !strings.HasSuffix(formatted, "%") {
				t.Logf("Expected %% suffix for %f, got %s", sigma, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(0, 5),
	))

	properties.TestingRun(t)
}
