package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaiadhikary/BVDU-Bank/bank"
	"github.com/kaiadhikary/BVDU-Bank/trade"
)

var buyCmd = &cobra.Command{
	Use:   "buy <account> <asset> <qty>",
	Short: "Buy an asset for an account",
	Long: `Buy qty units of an asset at the current native price, debiting the
account's INR balance at current FX rates. The market must be open.

Example:
  bvdubank buy 1001 AAPL 2 --pin 1234`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(args, "buy")
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell <account> <asset> <qty>",
	Short: "Sell an asset from an account",
	Long: `Sell qty units of a held asset at the current native price,
crediting the proceeds to the account's INR balance at current FX rates.

Example:
  bvdubank sell 1001 AAPL 2 --pin 1234`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTrade(args, "sell")
	},
}

func init() {
	rootCmd.AddCommand(buyCmd)
	rootCmd.AddCommand(sellCmd)
}

func runTrade(args []string, side string) error {
	account, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("account number: %w", err)
	}
	qty, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("quantity: %w", err)
	}

	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	if err := authenticate(bk, account); err != nil {
		return err
	}

	var fill trade.Fill
	if side == "buy" {
		fill, err = bk.Buy(account, args[1], qty, time.Now())
	} else {
		fill, err = bk.Sell(account, args[1], qty, time.Now())
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s %s: %.4f %s @ %.4f %s = %.2f INR\n",
		fill.Side, fill.ID, fill.Qty, fill.AssetID,
		fill.PriceNative, currencyOf(bk, fill.AssetID), fill.AmountINR)
	fmt.Printf("Cash balance: %.2f INR\n", fill.CashAfter)
	return nil
}

func currencyOf(bk *bank.Bank, assetID string) string {
	if a, ok := bk.Catalog.Get(assetID); ok {
		return a.Market.Currency()
	}
	return "INR"
}
