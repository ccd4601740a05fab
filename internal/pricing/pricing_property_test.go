package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: For any valid market inputs, call minus put equals the
// discounted forward S - K*exp(-rT) (put-call parity).
func TestProperty_PutCallParity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("call - put == S - K*exp(-rT) within 1e-6", prop.ForAll(
		func(spot, strike, rate, sigma, expiry float64) bool {
			in := MarketInputs{Spot: spot, Strike: strike, Rate: rate, Sigma: sigma, Expiry: expiry}
			call, err := PriceCall(in)
			if err != nil {
				t.Logf("PriceCall failed: %v", err)
				return false
			}
			put, err := PricePut(in)
			if err != nil {
				t.Logf("PricePut failed: %v", err)
				return false
			}
			parity := spot - strike*math.Exp(-rate*expiry)
			return math.Abs((call-put)-parity) < 1e-6
		},
		gen.Float64Range(1, 5000),
		gen.Float64Range(1, 5000),
		gen.Float64Range(-0.2, 0.5),
		gen.Float64Range(0.01, 3),
		gen.Float64Range(0.01, 10),
	))

	properties.TestingRun(t)
}

// Property: normal primitives respect their symmetry identities over the
// full practical range.
func TestProperty_NormalSymmetry(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("pdf is even and cdf is complementary", prop.ForAll(
		func(x float64) bool {
			if math.Abs(NormalPDF(-x)-NormalPDF(x)) > 1e-10 {
				return false
			}
			return math.Abs(NormalCDF(-x)-(1-NormalCDF(x))) < 1e-10
		},
		gen.Float64Range(-50, 50),
	))

	properties.TestingRun(t)
}

// Property: for sigma>0 and T>0, gamma and vega are non-negative, call delta
// lies in [0,1], put delta in [-1,0], and put delta equals call delta - 1.
func TestProperty_GreekBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("delta bounds and gamma/vega positivity", prop.ForAll(
		func(spot, strike, rate, sigma, expiry float64) bool {
			in := MarketInputs{Spot: spot, Strike: strike, Rate: rate, Sigma: sigma, Expiry: expiry}

			callGreeks, err := AllGreeks(in, Call)
			if err != nil {
				t.Logf("AllGreeks(Call) failed: %v", err)
				return false
			}
			putGreeks, err := AllGreeks(in, Put)
			if err != nil {
				t.Logf("AllGreeks(Put) failed: %v", err)
				return false
			}

			if callGreeks.Delta < 0 || callGreeks.Delta > 1 {
				return false
			}
			if putGreeks.Delta < -1 || putGreeks.Delta > 0 {
				return false
			}
			if math.Abs(putGreeks.Delta-(callGreeks.Delta-1)) > 1e-10 {
				return false
			}
			return callGreeks.Gamma >= 0 && callGreeks.Vega >= 0
		},
		gen.Float64Range(1, 5000),
		gen.Float64Range(1, 5000),
		gen.Float64Range(-0.2, 0.5),
		gen.Float64Range(0.01, 3),
		gen.Float64Range(0.01, 10),
	))

	properties.TestingRun(t)
}

// Property: call price increases in spot, put price decreases in spot, and
// both increase in volatility.
func TestProperty_Monotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	// Spot is generated as a moneyness ratio of the strike: at extreme
	// moneyness the CDF saturates in double precision and the strict
	// inequalities degenerate to equalities.
	properties.Property("price monotone in spot and vol", prop.ForAll(
		func(strike, moneyness, rate, sigma, expiry, bumpFrac float64) bool {
			spot := strike * moneyness
			in := MarketInputs{Spot: spot, Strike: strike, Rate: rate, Sigma: sigma, Expiry: expiry}
			bumpedSpot := in
			bumpedSpot.Spot = spot * (1 + bumpFrac)
			bumpedVol := in
			bumpedVol.Sigma = sigma + bumpFrac

			call, err := PriceCall(in)
			if err != nil {
				return false
			}
			put, err := PricePut(in)
			if err != nil {
				return false
			}
			callUpSpot, err := PriceCall(bumpedSpot)
			if err != nil {
				return false
			}
			putUpSpot, err := PricePut(bumpedSpot)
			if err != nil {
				return false
			}
			callUpVol, err := PriceCall(bumpedVol)
			if err != nil {
				return false
			}
			putUpVol, err := PricePut(bumpedVol)
			if err != nil {
				return false
			}

			return callUpSpot > call && putUpSpot < put &&
				callUpVol > call && putUpVol > put
		},
		gen.Float64Range(50, 500),
		gen.Float64Range(0.8, 1.25),
		gen.Float64Range(-0.05, 0.15),
		gen.Float64Range(0.15, 1.5),
		gen.Float64Range(0.25, 3),
		gen.Float64Range(0.01, 0.2),
	))

	properties.TestingRun(t)
}

// Property: pricing a call at any vol in (0,5) and inverting it recovers the
// same vol within 1e-6.
func TestProperty_ImpliedVolRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("implied vol inverts the pricer", prop.ForAll(
		func(spot, strike, rate, sigma, expiry float64) bool {
			in := MarketInputs{Spot: spot, Strike: strike, Rate: rate, Sigma: sigma, Expiry: expiry}
			target, err := PriceCall(in)
			if err != nil {
				t.Logf("PriceCall failed: %v", err)
				return false
			}

			// Skip premiums with no measurable time value or small vega:
			// a 1e-8 price tolerance over vega v only pins the vol to
			// roughly 1e-8/v, so below 1e-2 the 1e-6 vol tolerance is not
			// attainable even though the reprice is exact.
			intrinsic := math.Max(0, spot-strike*math.Exp(-rate*expiry))
			if target-intrinsic < 1e-6 {
				return true
			}
			if vegaKernel(spot, strike, rate, sigma, expiry) < 1e-2 {
				return true
			}

			got, err := ImpliedVol(target, spot, strike, rate, expiry, Call)
			if err != nil {
				t.Logf("ImpliedVol failed: %v", err)
				return false
			}
			return math.Abs(got-sigma) < 1e-6
		},
		gen.Float64Range(50, 200),
		gen.Float64Range(50, 200),
		gen.Float64Range(-0.05, 0.2),
		gen.Float64Range(0.05, 2.5),
		gen.Float64Range(0.05, 5),
	))

	properties.TestingRun(t)
}

// Property: central finite differences of the price agree with the analytic
// delta, gamma and vega.
func TestProperty_FiniteDifferenceCrossCheck(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	const h = 0.01

	properties.Property("analytic Greeks match finite differences", prop.ForAll(
		func(strike, moneyness, rate, sigma, expiry float64) bool {
			spot := strike * moneyness
			in := MarketInputs{Spot: spot, Strike: strike, Rate: rate, Sigma: sigma, Expiry: expiry}

			price := func(s, vol float64) float64 {
				return callPrice(s, strike, rate, vol, expiry)
			}

			numDelta := (price(spot+h, sigma) - price(spot-h, sigma)) / (2 * h)
			numGamma := (price(spot+h, sigma) - 2*price(spot, sigma) + price(spot-h, sigma)) / (h * h)
			numVega := (price(spot, sigma+h) - price(spot, sigma-h)) / (2 * h)

			delta, err := Delta(in, Call)
			if err != nil {
				return false
			}
			gamma, err := Gamma(in)
			if err != nil {
				return false
			}
			vega, err := Vega(in)
			if err != nil {
				return false
			}

			// Vega scales with spot (near 100 at K=500), so its tolerance
			// must be relative: the h^2 truncation error of the central
			// difference alone reaches a fixed 1e-2 at that size.
			return math.Abs(numDelta-delta) < 1e-4 &&
				math.Abs(numGamma-gamma) < 1e-3 &&
				math.Abs(numVega-vega) < 1e-2*math.Max(1, vega)
		},
		gen.Float64Range(50, 500),
		gen.Float64Range(0.8, 1.25),
		gen.Float64Range(-0.05, 0.15),
		gen.Float64Range(0.2, 1.5),
		gen.Float64Range(0.25, 3),
	))

	properties.TestingRun(t)
}
