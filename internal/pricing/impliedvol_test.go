package pricing

import (
	"math"
	"strings"
	"testing"

	apperrors "quantpricer/internal/errors"
)

func TestImpliedVolRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   MarketInputs
		typ  OptionType
	}{
		{"at the money call", MarketInputs{Spot: 100, Strike: 100, Rate: 0.05, Sigma: 0.2, Expiry: 1}, Call},
		{"at the money put", MarketInputs{Spot: 100, Strike: 100, Rate: 0.05, Sigma: 0.2, Expiry: 1}, Put},
		{"in the money call", MarketInputs{Spot: 120, Strike: 100, Rate: 0.03, Sigma: 0.45, Expiry: 0.5}, Call},
		{"out of the money put", MarketInputs{Spot: 120, Strike: 100, Rate: 0.03, Sigma: 0.45, Expiry: 0.5}, Put},
		{"high vol", MarketInputs{Spot: 100, Strike: 90, Rate: 0.01, Sigma: 1.8, Expiry: 2}, Call},
		{"low vol", MarketInputs{Spot: 100, Strike: 100, Rate: 0.05, Sigma: 0.02, Expiry: 1}, Call},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			target, err := Price(tt.in, tt.typ)
			if err != nil {
				t.Fatalf("Price: %v", err)
			}

			got, err := ImpliedVol(target, tt.in.Spot, tt.in.Strike, tt.in.Rate, tt.in.Expiry, tt.typ)
			if err != nil {
				t.Fatalf("ImpliedVol: %v", err)
			}
			if math.Abs(got-tt.in.Sigma) > 1e-6 {
				t.Errorf("recovered vol %v, want %v", got, tt.in.Sigma)
			}
		})
	}
}

func TestImpliedVolAtExpiry(t *testing.T) {
	// The only valid price at expiry is the intrinsic value; implied vol is 0.
	got, err := ImpliedVol(10, 110, 100, 0.05, 0, Call)
	if err != nil {
		t.Fatalf("ImpliedVol: %v", err)
	}
	if got != 0.0 {
		t.Errorf("implied vol at expiry = %v, want 0", got)
	}

	_, err = ImpliedVol(12, 110, 100, 0.05, 0, Call)
	var oob *apperrors.OutOfBoundsError
	if !apperrors.As(err, &oob) {
		t.Fatalf("non-intrinsic price at expiry: expected OutOfBoundsError, got %v", err)
	}
}

func TestImpliedVolOutOfBounds(t *testing.T) {
	// A call can never exceed the spot.
	_, err := ImpliedVol(101, 100, 100, 0.05, 1, Call)
	var oob *apperrors.OutOfBoundsError
	if !apperrors.As(err, &oob) {
		t.Fatalf("expected OutOfBoundsError, got %v", err)
	}
	if oob.Bound != "upper" || !strings.Contains(err.Error(), "upper bound") {
		t.Errorf("expected upper bound violation, got %q", err.Error())
	}
	if oob.Limit != 100 {
		t.Errorf("upper limit = %v, want spot 100", oob.Limit)
	}

	// Below the discounted-forward intrinsic floor.
	_, err = ImpliedVol(1, 150, 100, 0.05, 1, Call)
	if !apperrors.As(err, &oob) {
		t.Fatalf("expected OutOfBoundsError, got %v", err)
	}
	if oob.Bound != "lower" || !strings.Contains(err.Error(), "lower bound") {
		t.Errorf("expected lower bound violation, got %q", err.Error())
	}

	// Put cap is the discounted strike.
	_, err = ImpliedVol(99, 100, 100, 0.05, 1, Put)
	if !apperrors.As(err, &oob) {
		t.Fatalf("expected OutOfBoundsError for put above cap, got %v", err)
	}
	if oob.Bound != "upper" {
		t.Errorf("put cap violation bound = %q, want upper", oob.Bound)
	}
}

func TestImpliedVolInvalidInputs(t *testing.T) {
	var domainErr *apperrors.DomainError

	_, err := ImpliedVol(10, -100, 100, 0.05, 1, Call)
	if !apperrors.As(err, &domainErr) {
		t.Errorf("negative spot: expected DomainError, got %v", err)
	}

	_, err = ImpliedVol(math.NaN(), 100, 100, 0.05, 1, Call)
	if !apperrors.As(err, &domainErr) {
		t.Errorf("NaN target: expected DomainError, got %v", err)
	}

	_, err = ImpliedVol(10, 100, 100, 0.05, 1, OptionType(7))
	if !apperrors.As(err, &domainErr) {
		t.Errorf("foreign option tag: expected DomainError, got %v", err)
	}
}

func TestImpliedVolDeepOutOfTheMoney(t *testing.T) {
	// Deep OTM, tiny but valid premium: the solver must not divide through
	// near-zero vega. Whatever it returns has to reprice within a loose
	// tolerance or fall back to a bracketed midpoint.
	in := MarketInputs{Spot: 100, Strike: 200, Rate: 0.01, Sigma: 0.3, Expiry: 0.25}
	target, err := PriceCall(in)
	if err != nil {
		t.Fatalf("PriceCall: %v", err)
	}

	got, err := ImpliedVol(target, in.Spot, in.Strike, in.Rate, in.Expiry, Call)
	if err != nil {
		t.Fatalf("ImpliedVol: %v", err)
	}
	repriced := callPrice(in.Spot, in.Strike, in.Rate, got, in.Expiry)
	if math.Abs(repriced-target) > 1e-6 {
		t.Errorf("deep OTM reprice %v, target %v (vol %v)", repriced, target, got)
	}
}

// Deep ITM with low vol leaves vega near 1e-3, where the 1e-8 price
// tolerance only identifies the vol to about 1e-5. The solver's contract is
// in price space: the recovered vol must reprice the target even when it
// differs from the generating vol by more than the round-trip tolerance.
func TestImpliedVolLowVegaReprices(t *testing.T) {
	in := MarketInputs{Spot: 114.285, Strike: 75.274, Rate: -0.0373, Sigma: 0.05906, Expiry: 1.673}

	if v := vegaKernel(in.Spot, in.Strike, in.Rate, in.Sigma, in.Expiry); v > 1e-2 {
		t.Fatalf("vega = %v, expected a low-vega scenario", v)
	}

	target, err := PriceCall(in)
	if err != nil {
		t.Fatalf("PriceCall: %v", err)
	}

	got, err := ImpliedVol(target, in.Spot, in.Strike, in.Rate, in.Expiry, Call)
	if err != nil {
		t.Fatalf("ImpliedVol: %v", err)
	}

	repriced := callPrice(in.Spot, in.Strike, in.Rate, got, in.Expiry)
	if math.Abs(repriced-target) > 1e-6 {
		t.Errorf("low-vega reprice %v, target %v (vol %v)", repriced, target, got)
	}
}

func TestSolverCustomBudget(t *testing.T) {
	target, err := PriceCall(goldenInputs)
	if err != nil {
		t.Fatalf("PriceCall: %v", err)
	}

	s := Solver{Tolerance: 1e-10, MaxIter: 200}
	got, err := s.ImpliedVol(target, 100, 100, 0.05, 1, Call)
	if err != nil {
		t.Fatalf("ImpliedVol: %v", err)
	}
	if math.Abs(got-0.2) > 1e-7 {
		t.Errorf("tight-tolerance recovered vol = %v, want 0.2", got)
	}
}
