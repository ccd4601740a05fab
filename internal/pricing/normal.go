// Package pricing implements closed-form Black-Scholes pricing, Greeks and
// implied volatility for European options.
package pricing

import (
	"math"

	"quantpricer/internal/errors"
)

const (
	sqrt2Pi = 2.5066282746310002 // sqrt(2*pi)
	sqrt2   = 1.4142135623730951

	// exp(-x^2/2) is below the smallest positive double past this point.
	pdfCutoff = 37.0
	// Phi(8) differs from 1 by less than 1e-15, below any tolerance used here.
	cdfCutoff = 8.0
)

// NormalPDF returns the standard normal density phi(x) = exp(-x^2/2)/sqrt(2*pi).
// For |x| beyond the underflow threshold it returns exactly 0 instead of
// computing through subnormals.
func NormalPDF(x float64) float64 {
	if math.Abs(x) > pdfCutoff {
		return 0.0
	}
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// NormalCDF returns the standard normal CDF Phi(x) = 0.5*(1+erf(x/sqrt(2))).
// Far tails are clamped to exactly 0 or 1.
func NormalCDF(x float64) float64 {
	if x > cdfCutoff {
		return 1.0
	}
	if x < -cdfCutoff {
		return 0.0
	}
	return 0.5 * (1.0 + math.Erf(x/sqrt2))
}

// SafeLog returns log(x), failing with a DomainError for x <= 0 instead of
// letting NaN propagate silently.
func SafeLog(x float64) (float64, error) {
	if x <= 0 {
		return 0, errors.NewDomainError("log argument", x, "must be positive")
	}
	return math.Log(x), nil
}

// SafeSqrt returns sqrt(x), failing with a DomainError for x < 0.
func SafeSqrt(x float64) (float64, error) {
	if x < 0 {
		return 0, errors.NewDomainError("sqrt argument", x, "must be non-negative")
	}
	return math.Sqrt(x), nil
}
