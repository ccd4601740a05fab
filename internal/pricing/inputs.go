package pricing

import (
	"math"
	"strings"

	"quantpricer/internal/errors"
)

// OptionType identifies a European call or put.
type OptionType int

const (
	// Call is a European call option.
	Call OptionType = iota
	// Put is a European put option.
	Put
)

// String returns the lowercase wire name of the option type.
func (t OptionType) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return "unknown"
	}
}

// ParseOptionType parses "call" or "put" (case-insensitive).
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(s) {
	case "call":
		return Call, nil
	case "put":
		return Put, nil
	default:
		return Call, errors.NewDomainError("option type", 0, "must be 'call' or 'put'")
	}
}

// Bound caps guarding exp()/log() against overflow for extreme inputs.
const (
	MaxSpot   = 10000.0
	MaxStrike = 10000.0
	MinRate   = -0.5
	MaxRate   = 2.0
	MaxExpiry = 50.0
	MaxVol    = 5.0
)

// MarketInputs holds the scalar inputs to every pricing computation.
// Values are immutable; each computation is a pure function of one
// MarketInputs value.
type MarketInputs struct {
	Spot   float64 // S, current price of the underlying
	Strike float64 // K
	Rate   float64 // r, annualized continuously-compounded
	Sigma  float64 // annualized volatility
	Expiry float64 // T, years to expiry
}

// Validate checks the mathematical preconditions on the inputs: all fields
// finite, S and K strictly positive, sigma and T non-negative, plus the
// overflow-guard caps.
func (m MarketInputs) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"Stock price", m.Spot},
		{"Strike price", m.Strike},
		{"Risk-free rate", m.Rate},
		{"Volatility", m.Sigma},
		{"Time to expiration", m.Expiry},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return errors.NewDomainError(f.name, f.value, "must be finite")
		}
	}

	if m.Spot <= 0 {
		return errors.NewDomainError("Stock price", m.Spot, "must be positive")
	}
	if m.Strike <= 0 {
		return errors.NewDomainError("Strike price", m.Strike, "must be positive")
	}
	if m.Sigma < 0 {
		return errors.NewDomainError("Volatility", m.Sigma, "must be non-negative")
	}
	if m.Expiry < 0 {
		return errors.NewDomainError("Time to expiration", m.Expiry, "must be non-negative")
	}

	if m.Spot > MaxSpot {
		return errors.NewDomainError("Stock price", m.Spot, "too high (max: 10,000)")
	}
	if m.Strike > MaxStrike {
		return errors.NewDomainError("Strike price", m.Strike, "too high (max: 10,000)")
	}
	if m.Rate < MinRate || m.Rate > MaxRate {
		return errors.NewDomainError("Risk-free rate", m.Rate, "out of bounds (-50% to 200%)")
	}
	if m.Expiry > MaxExpiry {
		return errors.NewDomainError("Time to expiration", m.Expiry, "too long (max: 50 years)")
	}
	if m.Sigma > MaxVol {
		return errors.NewDomainError("Volatility", m.Sigma, "too high (max: 500%)")
	}

	return nil
}

// Greeks holds the five first/second-order price sensitivities, annualized:
// theta per unit year, rho per unit rate, vega per unit vol.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}
