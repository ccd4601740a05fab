package pricing

import (
	"math"
	"testing"
)

func TestGoldenGreeks(t *testing.T) {
	callGreeks, err := AllGreeks(goldenInputs, Call)
	if err != nil {
		t.Fatalf("AllGreeks(Call): %v", err)
	}
	putGreeks, err := AllGreeks(goldenInputs, Put)
	if err != nil {
		t.Fatalf("AllGreeks(Put): %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"call delta", callGreeks.Delta, 0.63683, 1e-5},
		{"put delta", putGreeks.Delta, -0.36317, 1e-5},
		{"gamma", callGreeks.Gamma, 0.018762, 1e-6},
		{"vega", callGreeks.Vega, 37.5240, 1e-4},
		{"call theta", callGreeks.Theta, -6.4140, 1e-4},
		{"put theta", putGreeks.Theta, -1.6579, 1e-4},
		{"call rho", callGreeks.Rho, 53.2325, 1e-4},
		{"put rho", putGreeks.Rho, -41.8905, 1e-4},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > c.tol {
			t.Errorf("%s = %v, want %v (tol %v)", c.name, c.got, c.want, c.tol)
		}
	}

	if callGreeks.Gamma != putGreeks.Gamma {
		t.Errorf("gamma differs by option type: call %v, put %v", callGreeks.Gamma, putGreeks.Gamma)
	}
	if callGreeks.Vega != putGreeks.Vega {
		t.Errorf("vega differs by option type: call %v, put %v", callGreeks.Vega, putGreeks.Vega)
	}
}

// Theta must satisfy the parity identity theta_call - theta_put = -r*K*exp(-rT),
// which pins the put branch to an independent reference instead of to itself.
func TestThetaParity(t *testing.T) {
	cases := []MarketInputs{
		goldenInputs,
		{Spot: 90, Strike: 100, Rate: 0.02, Sigma: 0.4, Expiry: 0.5},
		{Spot: 130, Strike: 100, Rate: 0.08, Sigma: 0.25, Expiry: 2},
	}
	for _, in := range cases {
		callTheta, err := Theta(in, Call)
		if err != nil {
			t.Fatalf("Theta(Call): %v", err)
		}
		putTheta, err := Theta(in, Put)
		if err != nil {
			t.Fatalf("Theta(Put): %v", err)
		}

		want := -in.Rate * in.Strike * math.Exp(-in.Rate*in.Expiry)
		if math.Abs((callTheta-putTheta)-want) > 1e-9 {
			t.Errorf("theta parity for %+v: got %v, want %v", in, callTheta-putTheta, want)
		}
	}
}

func TestDeltaAtExpiry(t *testing.T) {
	tests := []struct {
		name string
		spot float64
		typ  OptionType
		want float64
	}{
		{"call in the money", 110, Call, 1.0},
		{"call at the money", 100, Call, 0.5},
		{"call out of the money", 90, Call, 0.0},
		{"put in the money", 90, Put, -1.0},
		{"put at the money", 100, Put, -0.5},
		{"put out of the money", 110, Put, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := MarketInputs{Spot: tt.spot, Strike: 100, Rate: 0.05, Sigma: 0.2, Expiry: 0}
			got, err := Delta(in, tt.typ)
			if err != nil {
				t.Fatalf("Delta: %v", err)
			}
			if got != tt.want {
				t.Errorf("delta = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGreeksAtZeroVol(t *testing.T) {
	// Forward = 100*exp(-0.05) ~ 95.12, so spot 100 is above the forward.
	in := MarketInputs{Spot: 100, Strike: 100, Rate: 0.05, Sigma: 0, Expiry: 1}

	callDelta, err := Delta(in, Call)
	if err != nil {
		t.Fatalf("Delta: %v", err)
	}
	if callDelta != 1.0 {
		t.Errorf("zero-vol call delta above forward = %v, want 1", callDelta)
	}
	putDelta, err := Delta(in, Put)
	if err != nil {
		t.Fatalf("Delta: %v", err)
	}
	if putDelta != 0.0 {
		t.Errorf("zero-vol put delta above forward = %v, want 0", putDelta)
	}

	g, err := AllGreeks(in, Call)
	if err != nil {
		t.Fatalf("AllGreeks: %v", err)
	}
	if g.Gamma != 0 || g.Vega != 0 || g.Theta != 0 || g.Rho != 0 {
		t.Errorf("zero-vol curvature terms should vanish, got %+v", g)
	}
}

// At large strikes vega runs near 100, so a central difference with h=0.01
// only agrees to a relative tolerance: its h^2 truncation error alone is on
// the order of 1e-2 there, while delta and gamma stay tightly pinned.
func TestFiniteDifferenceLargeVega(t *testing.T) {
	const h = 0.01
	in := MarketInputs{Spot: 209.84, Strike: 208.07, Rate: 0.042, Sigma: 0.2, Expiry: 1.44}

	price := func(s, vol float64) float64 {
		return callPrice(s, in.Strike, in.Rate, vol, in.Expiry)
	}
	numDelta := (price(in.Spot+h, in.Sigma) - price(in.Spot-h, in.Sigma)) / (2 * h)
	numGamma := (price(in.Spot+h, in.Sigma) - 2*price(in.Spot, in.Sigma) + price(in.Spot-h, in.Sigma)) / (h * h)
	numVega := (price(in.Spot, in.Sigma+h) - price(in.Spot, in.Sigma-h)) / (2 * h)

	delta, err := Delta(in, Call)
	if err != nil {
		t.Fatalf("Delta: %v", err)
	}
	gamma, err := Gamma(in)
	if err != nil {
		t.Fatalf("Gamma: %v", err)
	}
	vega, err := Vega(in)
	if err != nil {
		t.Fatalf("Vega: %v", err)
	}

	if vega < 80 {
		t.Fatalf("vega = %v, expected a large-vega scenario near 92", vega)
	}
	if math.Abs(numDelta-delta) > 1e-4 {
		t.Errorf("delta fd diff %v exceeds 1e-4", math.Abs(numDelta-delta))
	}
	if math.Abs(numGamma-gamma) > 1e-3 {
		t.Errorf("gamma fd diff %v exceeds 1e-3", math.Abs(numGamma-gamma))
	}
	if diff := math.Abs(numVega - vega); diff > 1e-2*vega {
		t.Errorf("vega fd diff %v exceeds relative tolerance %v", diff, 1e-2*vega)
	}
}

func TestGammaVegaVanishAtExpiry(t *testing.T) {
	in := MarketInputs{Spot: 100, Strike: 100, Rate: 0.05, Sigma: 0.2, Expiry: 0}

	gamma, err := Gamma(in)
	if err != nil {
		t.Fatalf("Gamma: %v", err)
	}
	vega, err := Vega(in)
	if err != nil {
		t.Fatalf("Vega: %v", err)
	}
	if gamma != 0 || vega != 0 {
		t.Errorf("at expiry gamma=%v vega=%v, want both 0", gamma, vega)
	}
}
