package pricing

import (
	"math"

	"quantpricer/internal/errors"
)

// D1 computes the d1 parameter (ln(S/K) + (r + sigma^2/2)T) / (sigma*sqrt(T)).
// At T <= 0 it returns the moneyness limit (+Inf when S >= K, -Inf otherwise);
// the option payoff degenerates to a step function of moneyness at expiry.
// sigma <= 0 is a DomainError: callers who need the zero-vol price go through
// PriceCall/PricePut, which special-case it before reaching d1.
func D1(spot, strike, rate, sigma, expiry float64) (float64, error) {
	if expiry <= 0 {
		if spot >= strike {
			return math.Inf(1), nil
		}
		return math.Inf(-1), nil
	}
	if sigma <= 0 {
		return 0, errors.NewDomainError("Volatility", sigma, "must be positive for d1 calculation")
	}

	logTerm, err := SafeLog(spot / strike)
	if err != nil {
		return 0, err
	}
	sqrtT, err := SafeSqrt(expiry)
	if err != nil {
		return 0, err
	}
	return (logTerm + (rate+0.5*sigma*sigma)*expiry) / (sigma * sqrtT), nil
}

// D2 computes d2 = d1 - sigma*sqrt(T). At T <= 0 it follows the sign of d1
// to the corresponding infinity.
func D2(d1 float64, sigma, expiry float64) float64 {
	if expiry <= 0 {
		if d1 > 0 {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	return d1 - sigma*math.Sqrt(expiry)
}

// PriceCall returns the Black-Scholes price of a European call.
//
// Golden check: S=100, K=100, r=0.05, sigma=0.2, T=1 -> ~10.4506
func PriceCall(in MarketInputs) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	return callPrice(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry), nil
}

// PricePut returns the Black-Scholes price of a European put.
//
// Golden check: S=100, K=100, r=0.05, sigma=0.2, T=1 -> ~5.5735
func PricePut(in MarketInputs) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	return putPrice(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry), nil
}

// Price dispatches to PriceCall or PricePut. A tag outside the closed
// enumeration is a DomainError; unreachable after ParseOptionType but the
// contract still defines it.
func Price(in MarketInputs, optionType OptionType) (float64, error) {
	switch optionType {
	case Call:
		return PriceCall(in)
	case Put:
		return PricePut(in)
	default:
		return 0, errors.NewDomainError("option type", float64(optionType), "must be 'call' or 'put'")
	}
}

// callPrice is the call pricing kernel. Inputs are assumed validated; the
// implied-vol solver also calls it with sigma above the public cap while
// widening its bracket.
func callPrice(spot, strike, rate, sigma, expiry float64) float64 {
	if expiry == 0 {
		return math.Max(0, spot-strike)
	}
	if sigma == 0 {
		return math.Max(0, spot-strike*math.Exp(-rate*expiry))
	}

	d1, _ := D1(spot, strike, rate, sigma, expiry)
	d2 := D2(d1, sigma, expiry)
	return spot*NormalCDF(d1) - strike*math.Exp(-rate*expiry)*NormalCDF(d2)
}

// putPrice is the put pricing kernel, same contract as callPrice.
func putPrice(spot, strike, rate, sigma, expiry float64) float64 {
	if expiry == 0 {
		return math.Max(0, strike-spot)
	}
	if sigma == 0 {
		return math.Max(0, strike*math.Exp(-rate*expiry)-spot)
	}

	d1, _ := D1(spot, strike, rate, sigma, expiry)
	d2 := D2(d1, sigma, expiry)
	return strike*math.Exp(-rate*expiry)*NormalCDF(-d2) - spot*NormalCDF(-d1)
}
