package pricing

import (
	"math"

	"quantpricer/internal/errors"
)

// Delta returns d(price)/d(spot). Call delta is Phi(d1) in [0,1]; put delta
// is Phi(d1)-1 in [-1,0]. At T <= 0 it collapses to the step function of
// moneyness (+-0.5 exactly at the money); at sigma <= 0 it is the indicator
// of the discounted forward being in the money.
//
// Golden check: S=100, K=100, r=0.05, sigma=0.2, T=1 -> call ~0.63683, put ~-0.36317
func Delta(in MarketInputs, optionType OptionType) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	if optionType != Call && optionType != Put {
		return 0, errors.NewDomainError("option type", float64(optionType), "must be 'call' or 'put'")
	}
	return deltaKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry, optionType), nil
}

func deltaKernel(spot, strike, rate, sigma, expiry float64, optionType OptionType) float64 {
	if expiry <= 0 {
		if optionType == Call {
			switch {
			case spot > strike:
				return 1.0
			case spot == strike:
				return 0.5
			default:
				return 0.0
			}
		}
		switch {
		case spot < strike:
			return -1.0
		case spot == strike:
			return -0.5
		default:
			return 0.0
		}
	}

	if sigma <= 0 {
		forward := strike * math.Exp(-rate*expiry)
		if optionType == Call {
			if spot > forward {
				return 1.0
			}
			return 0.0
		}
		if spot < forward {
			return -1.0
		}
		return 0.0
	}

	d1, _ := D1(spot, strike, rate, sigma, expiry)
	if optionType == Call {
		return NormalCDF(d1)
	}
	return NormalCDF(d1) - 1.0
}

// Gamma returns d^2(price)/d(spot)^2 = phi(d1)/(S*sigma*sqrt(T)), identical
// for calls and puts and always non-negative. Curvature vanishes at T <= 0
// or sigma <= 0.
//
// Golden check: S=100, K=100, r=0.05, sigma=0.2, T=1 -> ~0.018762
func Gamma(in MarketInputs) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	return gammaKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry), nil
}

func gammaKernel(spot, strike, rate, sigma, expiry float64) float64 {
	if expiry <= 0 || sigma <= 0 {
		return 0.0
	}
	d1, _ := D1(spot, strike, rate, sigma, expiry)
	return NormalPDF(d1) / (spot * sigma * math.Sqrt(expiry))
}

// Vega returns d(price)/d(sigma) = S*sqrt(T)*phi(d1) per unit of volatility,
// identical for calls and puts. Zero at T <= 0 or sigma <= 0.
//
// Golden check: S=100, K=100, r=0.05, sigma=0.2, T=1 -> ~37.5240
func Vega(in MarketInputs) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	return vegaKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry), nil
}

func vegaKernel(spot, strike, rate, sigma, expiry float64) float64 {
	if expiry <= 0 || sigma <= 0 {
		return 0.0
	}
	d1, _ := D1(spot, strike, rate, sigma, expiry)
	return spot * math.Sqrt(expiry) * NormalPDF(d1)
}

// Theta returns d(price)/d(time), annualized, per year of calendar time
// elapsing. The put branch is the parity image of the call branch:
// theta_call - theta_put = -r*K*exp(-rT).
//
// Golden check: S=100, K=100, r=0.05, sigma=0.2, T=1 -> call ~-6.4140, put ~-1.6579
func Theta(in MarketInputs, optionType OptionType) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	if optionType != Call && optionType != Put {
		return 0, errors.NewDomainError("option type", float64(optionType), "must be 'call' or 'put'")
	}
	return thetaKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry, optionType), nil
}

func thetaKernel(spot, strike, rate, sigma, expiry float64, optionType OptionType) float64 {
	if expiry <= 0 || sigma <= 0 {
		return 0.0
	}

	d1, _ := D1(spot, strike, rate, sigma, expiry)
	d2 := D2(d1, sigma, expiry)

	decay := -spot * NormalPDF(d1) * sigma / (2 * math.Sqrt(expiry))
	if optionType == Call {
		return decay - rate*strike*math.Exp(-rate*expiry)*NormalCDF(d2)
	}
	return decay + rate*strike*math.Exp(-rate*expiry)*NormalCDF(-d2)
}

// Rho returns d(price)/d(rate): K*T*exp(-rT)*Phi(d2) for calls,
// -K*T*exp(-rT)*Phi(-d2) for puts.
//
// Golden check: S=100, K=100, r=0.05, sigma=0.2, T=1 -> call ~53.2325, put ~-41.8905
func Rho(in MarketInputs, optionType OptionType) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	if optionType != Call && optionType != Put {
		return 0, errors.NewDomainError("option type", float64(optionType), "must be 'call' or 'put'")
	}
	return rhoKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry, optionType), nil
}

func rhoKernel(spot, strike, rate, sigma, expiry float64, optionType OptionType) float64 {
	if expiry <= 0 || sigma <= 0 {
		return 0.0
	}

	d1, _ := D1(spot, strike, rate, sigma, expiry)
	d2 := D2(d1, sigma, expiry)

	if optionType == Call {
		return strike * expiry * math.Exp(-rate*expiry) * NormalCDF(d2)
	}
	return -strike * expiry * math.Exp(-rate*expiry) * NormalCDF(-d2)
}

// AllGreeks computes the five sensitivities from one set of inputs.
func AllGreeks(in MarketInputs, optionType OptionType) (Greeks, error) {
	if err := in.Validate(); err != nil {
		return Greeks{}, err
	}
	if optionType != Call && optionType != Put {
		return Greeks{}, errors.NewDomainError("option type", float64(optionType), "must be 'call' or 'put'")
	}

	return Greeks{
		Delta: deltaKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry, optionType),
		Gamma: gammaKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry),
		Vega:  vegaKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry),
		Theta: thetaKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry, optionType),
		Rho:   rhoKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry, optionType),
	}, nil
}
