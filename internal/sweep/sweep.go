// Package sweep builds curve and heatmap datasets by evaluating the pricing
// core over swept ranges of spot and volatility. Individual points that fail
// (inputs outside the model's domain) become NaN sentinels; a sweep never
// aborts part-way through.
package sweep

import (
	"math"

	"quantpricer/internal/pricing"
)

// Default grid sizes, matching the charting layers the datasets feed.
const (
	DefaultCurvePoints   = 100
	DefaultHeatmapPoints = 50

	minVolRange = 0.01
	maxVolRange = 1.0
)

// PricePoint is one (spot, price) sample of a price curve.
type PricePoint struct {
	Spot  float64 `csv:"spot" json:"spot"`
	Price float64 `csv:"price" json:"price"`
}

// GreekPoint is one spot sample of the five Greek curves.
type GreekPoint struct {
	Spot  float64 `csv:"spot" json:"spot"`
	Delta float64 `csv:"delta" json:"delta"`
	Gamma float64 `csv:"gamma" json:"gamma"`
	Vega  float64 `csv:"vega" json:"vega"`
	Theta float64 `csv:"theta" json:"theta"`
	Rho   float64 `csv:"rho" json:"rho"`
}

// HeatmapGrid is a price surface over spot (columns) and volatility (rows).
type HeatmapGrid struct {
	Spots  []float64
	Vols   []float64
	Prices [][]float64 // Prices[vol][spot]
}

// SpotRange returns n spot samples spanning [0.5K, 1.5K].
func SpotRange(strike float64, n int) []float64 {
	if n <= 0 {
		n = DefaultCurvePoints
	}
	return linspace(0.5*strike, 1.5*strike, n)
}

// VolRange returns n volatility samples spanning [0.01, 1.0].
func VolRange(n int) []float64 {
	if n <= 0 {
		n = DefaultHeatmapPoints
	}
	return linspace(minVolRange, maxVolRange, n)
}

// PriceCurve prices the option at each spot in spots, holding the other
// inputs fixed. Failed points carry NaN.
func PriceCurve(spots []float64, strike, rate, sigma, expiry float64, optionType pricing.OptionType) []PricePoint {
	points := make([]PricePoint, len(spots))
	for i, spot := range spots {
		in := pricing.MarketInputs{Spot: spot, Strike: strike, Rate: rate, Sigma: sigma, Expiry: expiry}
		price, err := pricing.Price(in, optionType)
		if err != nil {
			price = math.NaN()
		}
		points[i] = PricePoint{Spot: spot, Price: price}
	}
	return points
}

// GreekCurves computes all five Greeks at each spot in spots. A failed point
// carries NaN in every Greek.
func GreekCurves(spots []float64, strike, rate, sigma, expiry float64, optionType pricing.OptionType) []GreekPoint {
	points := make([]GreekPoint, len(spots))
	for i, spot := range spots {
		in := pricing.MarketInputs{Spot: spot, Strike: strike, Rate: rate, Sigma: sigma, Expiry: expiry}
		greeks, err := pricing.AllGreeks(in, optionType)
		if err != nil {
			nan := math.NaN()
			points[i] = GreekPoint{Spot: spot, Delta: nan, Gamma: nan, Vega: nan, Theta: nan, Rho: nan}
			continue
		}
		points[i] = GreekPoint{
			Spot:  spot,
			Delta: greeks.Delta,
			Gamma: greeks.Gamma,
			Vega:  greeks.Vega,
			Theta: greeks.Theta,
			Rho:   greeks.Rho,
		}
	}
	return points
}

// Heatmap prices the option over the spot x volatility grid. Failed cells
// carry NaN.
func Heatmap(spots, vols []float64, strike, rate, expiry float64, optionType pricing.OptionType) HeatmapGrid {
	prices := make([][]float64, len(vols))
	for i, vol := range vols {
		row := make([]float64, len(spots))
		for j, spot := range spots {
			in := pricing.MarketInputs{Spot: spot, Strike: strike, Rate: rate, Sigma: vol, Expiry: expiry}
			price, err := pricing.Price(in, optionType)
			if err != nil {
				price = math.NaN()
			}
			row[j] = price
		}
		prices[i] = row
	}
	return HeatmapGrid{Spots: spots, Vols: vols, Prices: prices}
}

func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
