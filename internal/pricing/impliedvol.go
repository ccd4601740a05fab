package pricing

import (
	"math"

	"quantpricer/internal/errors"
)

// Solver tuning defaults.
const (
	DefaultTolerance = 1e-8
	DefaultMaxIter   = 100

	boundsSlack = 1e-10 // slack on the no-arbitrage interval
	minVega     = 1e-12 // below this the Newton step cannot be trusted
)

// Solver inverts the pricing engine to recover volatility from an observed
// price. Bisection narrows a guaranteed bracket first; a Newton-Raphson
// polish using analytic vega then finishes quadratically. Bisection never
// diverges once bracketed, Newton alone can divide by near-zero vega deep
// in or out of the money.
type Solver struct {
	Tolerance float64
	MaxIter   int
}

// NewSolver returns a Solver with the default tolerance and iteration budget.
func NewSolver() Solver {
	return Solver{
		Tolerance: DefaultTolerance,
		MaxIter:   DefaultMaxIter,
	}
}

// ImpliedVol recovers the volatility that reprices the option at target,
// using the default solver settings.
func ImpliedVol(target, spot, strike, rate, expiry float64, optionType OptionType) (float64, error) {
	return NewSolver().ImpliedVol(target, spot, strike, rate, expiry, optionType)
}

// ImpliedVol recovers the volatility sigma such that repricing with it
// reproduces target within tolerance. Fails with an OutOfBoundsError when
// target violates the no-arbitrage interval and a ConvergenceError when no
// bracket exists or neither phase converges within its budget.
func (s Solver) ImpliedVol(target, spot, strike, rate, expiry float64, optionType OptionType) (float64, error) {
	// Validate the fixed inputs with a placeholder vol; sigma itself is the
	// unknown being solved for.
	in := MarketInputs{Spot: spot, Strike: strike, Rate: rate, Sigma: 0, Expiry: expiry}
	if err := in.Validate(); err != nil {
		return 0, err
	}
	if optionType != Call && optionType != Put {
		return 0, errors.NewDomainError("option type", float64(optionType), "must be 'call' or 'put'")
	}
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return 0, errors.NewDomainError("Market price", target, "must be finite")
	}

	if err := checkNoArbitrageBounds(target, spot, strike, rate, expiry, optionType); err != nil {
		return 0, err
	}

	// At expiry the only arbitrage-free price is the intrinsic value, which
	// carries no volatility information; by convention the implied vol is 0.
	if expiry <= 0 {
		return 0.0, nil
	}

	price := func(sigma float64) float64 {
		if optionType == Call {
			return callPrice(spot, strike, rate, sigma, expiry)
		}
		return putPrice(spot, strike, rate, sigma, expiry)
	}
	f := func(sigma float64) float64 { return price(sigma) - target }

	// Bracketing: widen the low end first, then the high end.
	sigmaLow, sigmaHigh := 1e-6, 5.0
	fLow, fHigh := f(sigmaLow), f(sigmaHigh)
	if fLow*fHigh > 0 {
		sigmaLow = 1e-8
		fLow = f(sigmaLow)
		if fLow*fHigh > 0 {
			sigmaHigh = 10.0
			fHigh = f(sigmaHigh)
			if fLow*fHigh > 0 {
				return 0, errors.NewConvergenceError("bracket", 0)
			}
		}
	}

	// Bisection phase: linear but the root stays bracketed.
	for i := 0; i < s.MaxIter; i++ {
		sigmaMid := (sigmaLow + sigmaHigh) / 2
		fMid := f(sigmaMid)

		if math.Abs(fMid) < s.Tolerance {
			return sigmaMid, nil
		}

		if fMid*fLow > 0 {
			sigmaLow = sigmaMid
			fLow = fMid
		} else {
			sigmaHigh = sigmaMid
			fHigh = fMid
		}
	}

	// Newton-Raphson polish from the narrowed bracket's midpoint.
	sigma := (sigmaLow + sigmaHigh) / 2
	for i := 0; i < s.MaxIter; i++ {
		fVal := f(sigma)
		if math.Abs(fVal) < s.Tolerance {
			return sigma, nil
		}

		vega := vegaKernel(spot, strike, rate, sigma, expiry)
		if math.Abs(vega) < minVega {
			// Too flat to trust a Newton step; the bisection bracket is the
			// best answer available.
			return (sigmaLow + sigmaHigh) / 2, nil
		}

		sigmaNext := sigma - fVal/vega
		if sigmaNext <= 0 {
			sigmaNext = sigma / 2
		}
		if math.Abs(sigmaNext-sigma) < s.Tolerance {
			return sigmaNext, nil
		}
		sigma = sigmaNext
	}

	return 0, errors.NewConvergenceError("newton", s.MaxIter)
}

// checkNoArbitrageBounds verifies that target lies inside the model's price
// interval. At T <= 0 the interval collapses to the intrinsic value.
func checkNoArbitrageBounds(target, spot, strike, rate, expiry float64, optionType OptionType) error {
	if expiry <= 0 {
		var intrinsic float64
		if optionType == Call {
			intrinsic = math.Max(0, spot-strike)
		} else {
			intrinsic = math.Max(0, strike-spot)
		}
		if target > intrinsic+boundsSlack {
			return errors.NewOutOfBoundsError("upper", intrinsic, target)
		}
		if target < intrinsic-boundsSlack {
			return errors.NewOutOfBoundsError("lower", intrinsic, target)
		}
		return nil
	}

	var lower, upper float64
	discountedStrike := strike * math.Exp(-rate*expiry)
	if optionType == Call {
		lower = math.Max(0, spot-discountedStrike)
		upper = spot
	} else {
		lower = math.Max(0, discountedStrike-spot)
		upper = discountedStrike
	}

	if target > upper+boundsSlack {
		return errors.NewOutOfBoundsError("upper", upper, target)
	}
	if target < lower-boundsSlack {
		return errors.NewOutOfBoundsError("lower", lower, target)
	}
	return nil
}
