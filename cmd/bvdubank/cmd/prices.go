package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "Show the asset catalog with current prices",
	Long: `List every tradable asset with its native-currency price, market,
trading hours and open/closed status right now.

Example:
  bvdubank prices -d ./data`,
	Args: cobra.NoArgs,
	RunE: runPrices,
}

var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Apply one random price movement to all open markets",
	Long: `Move every asset whose market is currently open by a random step
scaled by its volatility, then persist the new prices.

Example:
  bvdubank tick -d ./data`,
	Args: cobra.NoArgs,
	RunE: runTick,
}

func init() {
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(tickCmd)
}

func runPrices(cmd *cobra.Command, args []string) error {
	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	now := time.Now()
	rates := bk.Rates.Get()
	fmt.Printf("FX: 1 USD = %.4f INR, 1 EUR = %.4f INR\n\n", rates.INRPerUSD, rates.INRPerEUR)
	fmt.Printf("%-8s %-22s %12s %4s %3s  %-11s %s\n",
		"ID", "NAME", "PRICE", "CCY", "MKT", "HOURS", "STATUS")
	for _, a := range bk.Catalog.Assets() {
		status := "CLOSED"
		if a.IsOpen(now) {
			status = "OPEN"
		}
		fmt.Printf("%-8s %-22s %12.4f %4s %3s  %02d:00-%02d:00 %s\n",
			a.ID, a.Name, a.Price, a.Market.Currency(), a.Market,
			a.OpenHour, a.CloseHour, status)
	}
	return nil
}

func runTick(cmd *cobra.Command, args []string) error {
	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	moved, err := bk.Tick(time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Moved %d asset(s); closed markets left untouched.\n", moved)
	return nil
}
