// Package cli provides the command-line interface for the pricing application.
package cli

import (
	"fmt"
	"math"
	"time"

	"quantpricer/internal/pricing"
)

// FormatPrice formats an option price with a currency prefix.
func FormatPrice(price float64) string {
	if math.IsNaN(price) {
		return "n/a"
	}
	return fmt.Sprintf("$%.4f", price)
}

// FormatGreek formats a sensitivity value. Greeks span several orders of
// magnitude, so small values get extra digits.
func FormatGreek(value float64) string {
	if math.IsNaN(value) {
		return "n/a"
	}
	if math.Abs(value) < 0.01 && value != 0 {
		return fmt.Sprintf("%.6f", value)
	}
	return fmt.Sprintf("%.4f", value)
}

// FormatVol formats a volatility as a percentage.
func FormatVol(sigma float64) string {
	if math.IsNaN(sigma) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", sigma*100)
}

// FormatRate formats an interest rate as a signed percentage.
func FormatRate(rate float64) string {
	return fmt.Sprintf("%+.2f%%", rate*100)
}

// FormatExpiry formats a time to expiration in years.
func FormatExpiry(years float64) string {
	if years < 1.0/52 {
		return fmt.Sprintf("%.1f days", years*365)
	}
	return fmt.Sprintf("%.2fy", years)
}

// FormatDate formats a date for display.
func FormatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// FormatTime formats a time for display.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatMoneyness describes where the spot sits relative to the strike.
func FormatMoneyness(spot, strike float64, optionType pricing.OptionType) string {
	ratio := spot / strike
	if optionType == pricing.Put {
		ratio = strike / spot
	}
	switch {
	case ratio > 1.01:
		return "ITM"
	case ratio < 0.99:
		return "OTM"
	default:
		return "ATM"
	}
}
