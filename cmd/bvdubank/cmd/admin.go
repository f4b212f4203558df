package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations",
	Long: `Operations reserved for bank administrators. Every one of them is
recorded in the audit log.

Subcommands:
  set-price    - Override an asset's price
  set-fx       - Replace both exchange rates
  big-move     - Apply one amplified price movement to open markets
  unfreeze     - Unfreeze a locked account
  interest     - Credit annual interest to savings accounts
  archive-logs - Compress and rotate the journal files

Examples:
  bvdubank admin set-price AAPL 195.50
  bvdubank admin set-fx 84.0 89.0
  bvdubank admin interest 6.5`,
}

var adminSetPriceCmd = &cobra.Command{
	Use:   "set-price <asset> <price>",
	Short: "Override an asset's price",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdminSetPrice,
}

var adminSetFXCmd = &cobra.Command{
	Use:   "set-fx <inr-per-usd> <inr-per-eur>",
	Short: "Replace both exchange rates",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdminSetFX,
}

var adminBigMoveCmd = &cobra.Command{
	Use:   "big-move",
	Short: "Apply one amplified price movement to open markets",
	Args:  cobra.NoArgs,
	RunE:  runAdminBigMove,
}

var adminUnfreezeCmd = &cobra.Command{
	Use:   "unfreeze <account>",
	Short: "Unfreeze a locked account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminUnfreeze,
}

var adminInterestCmd = &cobra.Command{
	Use:   "interest <rate-percent>",
	Short: "Credit annual interest to savings accounts",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminInterest,
}

var adminArchiveLogsCmd = &cobra.Command{
	Use:   "archive-logs",
	Short: "Compress and rotate the journal files",
	Args:  cobra.NoArgs,
	RunE:  runAdminArchiveLogs,
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminSetPriceCmd)
	adminCmd.AddCommand(adminSetFXCmd)
	adminCmd.AddCommand(adminBigMoveCmd)
	adminCmd.AddCommand(adminUnfreezeCmd)
	adminCmd.AddCommand(adminInterestCmd)
	adminCmd.AddCommand(adminArchiveLogsCmd)
}

func runAdminSetPrice(cmd *cobra.Command, args []string) error {
	price, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}

	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	if err := bk.SetPrice(args[0], price, time.Now()); err != nil {
		return err
	}
	a, _ := bk.Catalog.Get(args[0])
	fmt.Printf("%s now %.4f %s\n", a.ID, a.Price, a.Market.Currency())
	return nil
}

func runAdminSetFX(cmd *cobra.Command, args []string) error {
	usd, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("inr-per-usd: %w", err)
	}
	eur, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("inr-per-eur: %w", err)
	}

	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	if err := bk.SetFX(usd, eur, time.Now()); err != nil {
		return err
	}
	fmt.Printf("FX set: 1 USD = %.4f INR, 1 EUR = %.4f INR\n", usd, eur)
	return nil
}

func runAdminBigMove(cmd *cobra.Command, args []string) error {
	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	moved, err := bk.BigMove(time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Shocked %d asset(s) in open markets.\n", moved)
	return nil
}

func runAdminUnfreeze(cmd *cobra.Command, args []string) error {
	account, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("account number: %w", err)
	}

	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	if err := bk.Ledger.Unfreeze(account, time.Now()); err != nil {
		return err
	}
	fmt.Printf("Account %d unfrozen.\n", account)
	return nil
}

func runAdminInterest(cmd *cobra.Command, args []string) error {
	rate, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}

	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	credited, err := bk.Ledger.ApplyInterest(rate, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Interest at %.2f%% credited to %d savings account(s).\n", rate, credited)
	return nil
}

func runAdminArchiveLogs(cmd *cobra.Command, args []string) error {
	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	archived, err := bk.ArchiveLogs(time.Now())
	if err != nil {
		return err
	}
	if len(archived) == 0 {
		fmt.Println("Nothing to archive.")
		return nil
	}
	for _, path := range archived {
		fmt.Println(path)
	}
	return nil
}
