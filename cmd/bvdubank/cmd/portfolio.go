package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio <account>",
	Short: "Show an account's holdings, valuation and unrealized P/L",
	Long: `Value every position the account holds at current prices and FX
rates, in INR, with the unrealized profit or loss against cost basis.

Example:
  bvdubank portfolio 1001 --pin 1234`,
	Args: cobra.ExactArgs(1),
	RunE: runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	account, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("account number: %w", err)
	}

	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	if err := authenticate(bk, account); err != nil {
		return err
	}

	holdings := bk.Holdings(account)
	if len(holdings) == 0 {
		fmt.Printf("Account %d holds no positions.\n", account)
		return nil
	}

	fmt.Printf("%-8s %12s %12s %12s %14s %14s\n",
		"ID", "QTY", "AVG", "PRICE", "VALUE (INR)", "P/L (INR)")
	var value, pl float64
	for _, h := range holdings {
		fmt.Printf("%-8s %12.4f %12.4f %12.4f %14.2f %14.2f\n",
			h.AssetID, h.Qty, h.AvgPrice, h.CurrentPrice, h.ValueINR, h.PLINR)
		value += h.ValueINR
		pl += h.PLINR
	}
	fmt.Printf("\nTotal value: %.2f INR   Unrealized P/L: %+.2f INR\n", value, pl)

	if acct, ok := bk.Ledger.Get(account); ok {
		fmt.Printf("Cash balance: %.2f INR\n", acct.Balance)
	}
	return nil
}
