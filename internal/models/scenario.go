// Package models defines the data records shared by the store, CLI and API.
package models

import "time"

// Scenario is one logged pricing computation: the inputs, the price, and
// optionally the Greeks and an implied-vol result when a market price was
// supplied. The core exposes only plain data; persistence is layered on top.
type Scenario struct {
	ID         int64     `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Spot       float64   `json:"spot"`
	Strike     float64   `json:"strike"`
	Rate       float64   `json:"rate"`
	Expiry     float64   `json:"expiry"`
	Sigma      float64   `json:"sigma"`
	OptionType string    `json:"option_type"`
	Price      float64   `json:"price"`

	Delta *float64 `json:"delta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty"`
	Vega  *float64 `json:"vega,omitempty"`
	Theta *float64 `json:"theta,omitempty"`
	Rho   *float64 `json:"rho,omitempty"`

	MarketPrice *float64 `json:"market_price,omitempty"`
	ImpliedVol  *float64 `json:"implied_vol,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}
