// Package cli provides the command-line interface for the pricing application.
package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"quantpricer/internal/logging"
	"quantpricer/internal/models"
	"quantpricer/internal/pricing"
)

// addPricingCommands adds the price, greeks, and iv commands.
func addPricingCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPriceCmd(app))
	rootCmd.AddCommand(newGreeksCmd(app))
	rootCmd.AddCommand(newImpliedVolCmd(app))
}

// marketFlags registers the flags shared by the pricing commands.
func marketFlags(cmd *cobra.Command) {
	cmd.Flags().Float64P("spot", "s", 0, "current stock price")
	cmd.Flags().Float64P("strike", "k", 0, "strike price")
	cmd.Flags().Float64P("rate", "r", 0.05, "annualized risk-free rate")
	cmd.Flags().Float64P("expiry", "t", 1.0, "time to expiration in years")
	cmd.Flags().String("type", "call", "option type (call or put)")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("strike")
}

// marketInputs reads the shared flags into pricing inputs.
func marketInputs(cmd *cobra.Command) (pricing.MarketInputs, pricing.OptionType, error) {
	spot, _ := cmd.Flags().GetFloat64("spot")
	strike, _ := cmd.Flags().GetFloat64("strike")
	rate, _ := cmd.Flags().GetFloat64("rate")
	expiry, _ := cmd.Flags().GetFloat64("expiry")
	sigma, _ := cmd.Flags().GetFloat64("vol")
	rawType, _ := cmd.Flags().GetString("type")

	optionType, err := pricing.ParseOptionType(rawType)
	if err != nil {
		return pricing.MarketInputs{}, 0, err
	}

	return pricing.MarketInputs{
		Spot:   spot,
		Strike: strike,
		Rate:   rate,
		Sigma:  sigma,
		Expiry: expiry,
	}, optionType, nil
}

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a European option",
		Long:  "Compute the Black-Scholes price for a European call or put.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			in, optionType, err := marketInputs(cmd)
			if err != nil {
				output.Error("Invalid option type: %v", err)
				return err
			}

			price, err := pricing.Price(in, optionType)
			if err != nil {
				output.Error("Pricing failed: %v", err)
				return err
			}

			logging.LogScenario(app.Logger, optionType.String(), in.Spot, in.Strike, in.Sigma, in.Expiry, price)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"price":       price,
					"option_type": optionType.String(),
					"inputs":      in,
				})
			}

			output.Bold("%s Option  %s", optionType.String(), FormatMoneyness(in.Spot, in.Strike, optionType))
			output.Printf("  Spot:    %s\n", FormatPrice(in.Spot))
			output.Printf("  Strike:  %s\n", FormatPrice(in.Strike))
			output.Printf("  Rate:    %s\n", FormatRate(in.Rate))
			output.Printf("  Vol:     %s\n", FormatVol(in.Sigma))
			output.Printf("  Expiry:  %s\n", FormatExpiry(in.Expiry))
			output.Println()
			output.Success("Price: %s", FormatPrice(price))

			logFlag, _ := cmd.Flags().GetBool("log")
			if logFlag {
				return app.saveScenario(cmd.Context(), output, in, optionType, price, nil, nil)
			}
			return nil
		},
	}

	marketFlags(cmd)
	cmd.Flags().Float64P("vol", "v", 0.2, "annualized volatility")
	cmd.Flags().Bool("log", false, "save this scenario to the database")
	return cmd
}

func newGreeksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Compute option sensitivities",
		Long:  "Compute delta, gamma, vega, theta, and rho for a European option.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			in, optionType, err := marketInputs(cmd)
			if err != nil {
				output.Error("Invalid option type: %v", err)
				return err
			}

			price, err := pricing.Price(in, optionType)
			if err != nil {
				output.Error("Pricing failed: %v", err)
				return err
			}

			greeks, err := pricing.AllGreeks(in, optionType)
			if err != nil {
				output.Error("Greeks calculation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"price":       price,
					"greeks":      greeks,
					"option_type": optionType.String(),
					"inputs":      in,
				})
			}

			output.Bold("%s Option Sensitivities", optionType.String())
			output.Printf("  Price:   %s\n", FormatPrice(price))
			output.Println()

			table := NewTable(output, "Greek", "Value", "Per")
			table.AddRow("Delta", FormatGreek(greeks.Delta), "1.00 spot move")
			table.AddRow("Gamma", FormatGreek(greeks.Gamma), "1.00 spot move")
			table.AddRow("Vega", FormatGreek(greeks.Vega), "1.00 vol point")
			table.AddRow("Theta", FormatGreek(greeks.Theta), "1 year")
			table.AddRow("Rho", FormatGreek(greeks.Rho), "1.00 rate point")
			table.Render()

			logFlag, _ := cmd.Flags().GetBool("log")
			if logFlag {
				return app.saveScenario(cmd.Context(), output, in, optionType, price, &greeks, nil)
			}
			return nil
		},
	}

	marketFlags(cmd)
	cmd.Flags().Float64P("vol", "v", 0.2, "annualized volatility")
	cmd.Flags().Bool("log", false, "save this scenario to the database")
	return cmd
}

func newImpliedVolCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Recover implied volatility from a market price",
		Long:  "Invert the Black-Scholes formula to find the volatility implied by an observed option price.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			in, optionType, err := marketInputs(cmd)
			if err != nil {
				output.Error("Invalid option type: %v", err)
				return err
			}
			marketPrice, _ := cmd.Flags().GetFloat64("price")

			vol, err := app.Solver.ImpliedVol(marketPrice, in.Spot, in.Strike, in.Rate, in.Expiry, optionType)
			if err != nil {
				output.Error("Implied volatility failed: %v", err)
				return err
			}

			in.Sigma = vol
			repriced, err := pricing.Price(in, optionType)
			if err != nil {
				output.Error("Reprice failed: %v", err)
				return err
			}

			app.Logger.Info().
				Float64("market_price", marketPrice).
				Float64("implied_vol", vol).
				Str("type", optionType.String()).
				Msg("Implied volatility solved")

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"implied_vol":    vol,
					"priced_with_iv": repriced,
					"market_price":   marketPrice,
					"option_type":    optionType.String(),
				})
			}

			output.Bold("Implied Volatility")
			output.Printf("  Market Price:  %s\n", FormatPrice(marketPrice))
			output.Printf("  Repriced:      %s\n", FormatPrice(repriced))
			output.Println()
			output.Success("Implied Vol: %s", FormatVol(vol))

			logFlag, _ := cmd.Flags().GetBool("log")
			if logFlag {
				return app.saveScenario(cmd.Context(), output, in, optionType, repriced, nil, &marketPrice)
			}
			return nil
		},
	}

	marketFlags(cmd)
	cmd.Flags().Float64P("price", "p", 0, "observed market price of the option")
	cmd.MarkFlagRequired("price")
	cmd.Flags().Bool("log", false, "save this scenario to the database")
	return cmd
}

// saveScenario persists a priced scenario when the store is available.
func (app *App) saveScenario(ctx context.Context, output *Output, in pricing.MarketInputs, optionType pricing.OptionType, price float64, greeks *pricing.Greeks, marketPrice *float64) error {
	if app.Store == nil {
		output.Warning("Store not initialized, scenario not saved.")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	scenario := &models.Scenario{
		Timestamp:  time.Now(),
		Spot:       in.Spot,
		Strike:     in.Strike,
		Rate:       in.Rate,
		Expiry:     in.Expiry,
		Sigma:      in.Sigma,
		OptionType: optionType.String(),
		Price:      price,
	}
	if greeks != nil {
		scenario.Delta = &greeks.Delta
		scenario.Gamma = &greeks.Gamma
		scenario.Vega = &greeks.Vega
		scenario.Theta = &greeks.Theta
		scenario.Rho = &greeks.Rho
	}
	if marketPrice != nil {
		scenario.MarketPrice = marketPrice
		scenario.ImpliedVol = &in.Sigma
	}

	if err := app.Store.SaveScenario(ctx, scenario); err != nil {
		output.Error("Failed to save scenario: %v", err)
		return err
	}

	output.Dim("Scenario #%d saved.", scenario.ID)
	return nil
}
