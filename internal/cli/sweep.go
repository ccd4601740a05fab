// Package cli provides the command-line interface for the pricing application.
package cli

import (
	"math"
	"os"

	"github.com/spf13/cobra"

	"quantpricer/internal/logging"
	"quantpricer/internal/pricing"
	"quantpricer/internal/sweep"
)

// addSweepCommands adds the curve and heatmap commands.
func addSweepCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newCurveCmd(app))
	rootCmd.AddCommand(newHeatmapCmd(app))
}

func newCurveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Sweep option price and greeks across spot prices",
		Long:  "Generate price and greek curves over a range of spot prices around the strike.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			strike, _ := cmd.Flags().GetFloat64("strike")
			rate, _ := cmd.Flags().GetFloat64("rate")
			sigma, _ := cmd.Flags().GetFloat64("vol")
			expiry, _ := cmd.Flags().GetFloat64("expiry")
			points, _ := cmd.Flags().GetInt("points")
			rawType, _ := cmd.Flags().GetString("type")
			outPath, _ := cmd.Flags().GetString("out")
			withGreeks, _ := cmd.Flags().GetBool("greeks")

			optionType, err := pricing.ParseOptionType(rawType)
			if err != nil {
				output.Error("Invalid option type: %v", err)
				return err
			}

			spots := sweep.SpotRange(strike, points)
			curve := sweep.PriceCurve(spots, strike, rate, sigma, expiry, optionType)

			failed := 0
			for _, p := range curve {
				if math.IsNaN(p.Price) {
					failed++
				}
			}
			logging.LogSweep(app.Logger, "curve", len(curve), failed)

			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					output.Error("Failed to create output file: %v", err)
					return err
				}
				defer f.Close()

				if withGreeks {
					err = sweep.WriteGreekCurvesCSV(f, sweep.GreekCurves(spots, strike, rate, sigma, expiry, optionType))
				} else {
					err = sweep.WritePriceCurveCSV(f, curve)
				}
				if err != nil {
					output.Error("Failed to write CSV: %v", err)
					return err
				}
				output.Success("Curve written to %s", outPath)
				return nil
			}
			if output.IsJSON() {
				return output.JSON(jsonSafeCurve(curve))
			}

			output.Bold("%s price curve  K=%s  vol=%s  T=%s", optionType.String(), FormatPrice(strike), FormatVol(sigma), FormatExpiry(expiry))
			table := NewTable(output, "Spot", "Price")
			// A full curve is too tall for a terminal, sample every tenth point.
			step := len(curve) / 10
			if step < 1 {
				step = 1
			}
			for i := 0; i < len(curve); i += step {
				table.AddRow(FormatPrice(curve[i].Spot), FormatPrice(curve[i].Price))
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Float64P("strike", "k", 0, "strike price")
	cmd.Flags().Float64P("rate", "r", 0.05, "annualized risk-free rate")
	cmd.Flags().Float64P("vol", "v", 0.2, "annualized volatility")
	cmd.Flags().Float64P("expiry", "t", 1.0, "time to expiration in years")
	cmd.Flags().String("type", "call", "option type (call or put)")
	cmd.Flags().Int("points", sweep.DefaultCurvePoints, "number of spot samples")
	cmd.Flags().StringP("out", "o", "", "write CSV to this file instead of printing")
	cmd.Flags().Bool("greeks", false, "include greek curves in CSV output")
	cmd.MarkFlagRequired("strike")
	return cmd
}

func newHeatmapCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Sweep option prices across spot and volatility",
		Long:  "Generate a price surface over spot and volatility grids, written as CSV.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			strike, _ := cmd.Flags().GetFloat64("strike")
			rate, _ := cmd.Flags().GetFloat64("rate")
			expiry, _ := cmd.Flags().GetFloat64("expiry")
			points, _ := cmd.Flags().GetInt("points")
			rawType, _ := cmd.Flags().GetString("type")
			outPath, _ := cmd.Flags().GetString("out")

			optionType, err := pricing.ParseOptionType(rawType)
			if err != nil {
				output.Error("Invalid option type: %v", err)
				return err
			}

			spots := sweep.SpotRange(strike, points)
			vols := sweep.VolRange(points)
			grid := sweep.Heatmap(spots, vols, strike, rate, expiry, optionType)

			failed := 0
			for _, row := range grid.Prices {
				for _, p := range row {
					if math.IsNaN(p) {
						failed++
					}
				}
			}
			logging.LogSweep(app.Logger, "heatmap", len(spots)*len(vols), failed)

			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					output.Error("Failed to create output file: %v", err)
					return err
				}
				defer f.Close()

				if err := sweep.WriteHeatmapCSV(f, grid); err != nil {
					output.Error("Failed to write CSV: %v", err)
					return err
				}
				output.Success("Heatmap written to %s", outPath)
				return nil
			}

			if output.IsJSON() {
				return output.JSON(jsonSafeGrid(grid))
			}

			output.Bold("%s price surface  K=%s  T=%s", optionType.String(), FormatPrice(strike), FormatExpiry(expiry))
			output.Printf("  %d spots × %d vols\n", len(grid.Spots), len(grid.Vols))
			output.Dim("Use --out to write the full surface as CSV.")
			return nil
		},
	}

	cmd.Flags().Float64P("strike", "k", 0, "strike price")
	cmd.Flags().Float64P("rate", "r", 0.05, "annualized risk-free rate")
	cmd.Flags().Float64P("expiry", "t", 1.0, "time to expiration in years")
	cmd.Flags().String("type", "call", "option type (call or put)")
	cmd.Flags().Int("points", sweep.DefaultHeatmapPoints, "number of samples per axis")
	cmd.Flags().StringP("out", "o", "", "write CSV to this file instead of printing")
	cmd.MarkFlagRequired("strike")
	return cmd
}

// jsonCurvePoint mirrors sweep.PricePoint with a nullable price, since
// encoding/json rejects NaN sentinels.
type jsonCurvePoint struct {
	Spot  float64  `json:"spot"`
	Price *float64 `json:"price"`
}

// jsonHeatmap mirrors sweep.HeatmapGrid with nullable cells.
type jsonHeatmap struct {
	Spots  []float64    `json:"spots"`
	Vols   []float64    `json:"vols"`
	Prices [][]*float64 `json:"prices"`
}

func jsonSafeCurve(points []sweep.PricePoint) []jsonCurvePoint {
	out := make([]jsonCurvePoint, len(points))
	for i, p := range points {
		out[i].Spot = p.Spot
		if !math.IsNaN(p.Price) {
			price := p.Price
			out[i].Price = &price
		}
	}
	return out
}

func jsonSafeGrid(grid sweep.HeatmapGrid) jsonHeatmap {
	prices := make([][]*float64, len(grid.Prices))
	for i, row := range grid.Prices {
		cells := make([]*float64, len(row))
		for j, price := range row {
			if !math.IsNaN(price) {
				p := price
				cells[j] = &p
			}
		}
		prices[i] = cells
	}
	return jsonHeatmap{Spots: grid.Spots, Vols: grid.Vols, Prices: prices}
}
