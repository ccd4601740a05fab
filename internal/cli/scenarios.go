// Package cli provides the command-line interface for the pricing application.
package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"quantpricer/internal/store"
)

// addScenarioCommands adds the scenario history commands.
func addScenarioCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Scenario history",
		Long:  "Review pricing scenarios logged to the local database.",
	}

	cmd.AddCommand(newScenarioListCmd(app))
	cmd.AddCommand(newScenarioShowCmd(app))

	rootCmd.AddCommand(cmd)
}

func newScenarioListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List logged scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Warning("Store not initialized. No scenario data available.")
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			limit, _ := cmd.Flags().GetInt("limit")
			optionType, _ := cmd.Flags().GetString("type")

			scenarios, err := app.Store.GetScenarios(ctx, store.ScenarioFilter{
				OptionType: optionType,
				Limit:      limit,
			})
			if err != nil {
				output.Error("Failed to fetch scenarios: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(scenarios)
			}

			if len(scenarios) == 0 {
				output.Info("No scenarios logged yet.")
				output.Dim("Tip: add --log to price, greeks, or iv to record a scenario.")
				return nil
			}

			output.Bold("Logged Scenarios")
			table := NewTable(output, "ID", "Time", "Type", "Spot", "Strike", "Vol", "Expiry", "Price")
			for _, s := range scenarios {
				table.AddRow(
					formatID(s.ID),
					FormatTime(s.Timestamp),
					s.OptionType,
					FormatPrice(s.Spot),
					FormatPrice(s.Strike),
					FormatVol(s.Sigma),
					FormatExpiry(s.Expiry),
					FormatPrice(s.Price),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of scenarios to show")
	cmd.Flags().String("type", "", "filter by option type (call or put)")
	return cmd
}

func newScenarioShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single scenario in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				output.Warning("Store not initialized. No scenario data available.")
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			id, err := parseID(args[0])
			if err != nil {
				output.Error("Invalid scenario id: %v", err)
				return err
			}

			scenario, err := app.Store.GetScenarioByID(ctx, id)
			if err != nil {
				output.Error("Failed to fetch scenario: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(scenario)
			}

			output.Bold("Scenario #%d  %s", scenario.ID, FormatDate(scenario.Timestamp))
			output.Printf("  Type:    %s\n", scenario.OptionType)
			output.Printf("  Spot:    %s\n", FormatPrice(scenario.Spot))
			output.Printf("  Strike:  %s\n", FormatPrice(scenario.Strike))
			output.Printf("  Rate:    %s\n", FormatRate(scenario.Rate))
			output.Printf("  Vol:     %s\n", FormatVol(scenario.Sigma))
			output.Printf("  Expiry:  %s\n", FormatExpiry(scenario.Expiry))
			output.Printf("  Price:   %s\n", FormatPrice(scenario.Price))

			if scenario.Delta != nil {
				output.Println()
				output.Bold("Greeks")
				output.Printf("  Delta:   %s\n", FormatGreek(*scenario.Delta))
				output.Printf("  Gamma:   %s\n", FormatGreek(*scenario.Gamma))
				output.Printf("  Vega:    %s\n", FormatGreek(*scenario.Vega))
				output.Printf("  Theta:   %s\n", FormatGreek(*scenario.Theta))
				output.Printf("  Rho:     %s\n", FormatGreek(*scenario.Rho))
			}
			if scenario.MarketPrice != nil {
				output.Println()
				output.Bold("Implied Volatility")
				output.Printf("  Market Price: %s\n", FormatPrice(*scenario.MarketPrice))
				if scenario.ImpliedVol != nil {
					output.Printf("  Implied Vol:  %s\n", FormatVol(*scenario.ImpliedVol))
				}
			}
			if scenario.Notes != "" {
				output.Println()
				output.Dim("Notes: %s", scenario.Notes)
			}
			return nil
		},
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
