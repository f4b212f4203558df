package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaiadhikary/BVDU-Bank/store"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage customer accounts and balances",
	Long: `Create accounts and move cash.

Subcommands:
  open      - Open a new account
  deposit   - Deposit cash
  withdraw  - Withdraw cash
  transfer  - Transfer between accounts by number or UPI handle
  statement - Show an account's most recent transactions
  list      - List all accounts

Examples:
  bvdubank account open "Maya" --pin 4321 --deposit 2500
  bvdubank account deposit 1001 500
  bvdubank account transfer 1001 1002 2000 --pin 1234
  bvdubank account transfer 1001 achyut@bvdu 2000 --upi --pin 1234`,
}

var accountOpenCmd = &cobra.Command{
	Use:   "open <name>",
	Short: "Open a new account",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountOpen,
}

var accountDepositCmd = &cobra.Command{
	Use:   "deposit <account> <amount>",
	Short: "Deposit cash into an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCashOp(args, "deposit")
	},
}

var accountWithdrawCmd = &cobra.Command{
	Use:   "withdraw <account> <amount>",
	Short: "Withdraw cash from an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCashOp(args, "withdraw")
	},
}

var accountTransferCmd = &cobra.Command{
	Use:   "transfer <from> <to> <amount>",
	Short: "Transfer cash between accounts",
	Args:  cobra.ExactArgs(3),
	RunE:  runAccountTransfer,
}

var accountStatementCmd = &cobra.Command{
	Use:   "statement <account>",
	Short: "Show an account's most recent transactions",
	Args:  cobra.ExactArgs(1),
	RunE:  runAccountStatement,
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	RunE:  runAccountList,
}

var (
	openPIN        int
	openDeposit    float64
	openType       string
	openUPI        string
	transferByUPI  bool
	statementCount int
)

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountOpenCmd)
	accountCmd.AddCommand(accountDepositCmd)
	accountCmd.AddCommand(accountWithdrawCmd)
	accountCmd.AddCommand(accountTransferCmd)
	accountCmd.AddCommand(accountStatementCmd)
	accountCmd.AddCommand(accountListCmd)

	accountOpenCmd.Flags().IntVar(&openPIN, "pin", 0, "four-digit PIN (required)")
	accountOpenCmd.Flags().Float64Var(&openDeposit, "deposit", 0, "initial deposit in INR")
	accountOpenCmd.Flags().StringVar(&openType, "type", "Savings", "account type (Savings or Current)")
	accountOpenCmd.Flags().StringVar(&openUPI, "upi", "", "UPI handle (derived from name if empty)")
	accountOpenCmd.MarkFlagRequired("pin")

	accountTransferCmd.Flags().BoolVar(&transferByUPI, "upi", false, "address the destination by UPI handle")
	accountStatementCmd.Flags().IntVarP(&statementCount, "count", "n", 10, "number of transactions to show")
}

func runAccountOpen(cmd *cobra.Command, args []string) error {
	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	a, err := bk.Ledger.Open(args[0], openType, openPIN, openDeposit, openUPI, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Account %d opened for %s (%s)\n", a.Number, a.Name, a.Type)
	fmt.Printf("UPI: %s   Balance: %.2f INR\n", a.UPI, a.Balance)
	return nil
}

func runCashOp(args []string, op string) error {
	account, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("account number: %w", err)
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	var balance float64
	if op == "deposit" {
		// Deposits need no PIN, matching branch practice.
		balance, err = bk.Ledger.Deposit(account, amount, time.Now())
	} else {
		if err := authenticate(bk, account); err != nil {
			return err
		}
		balance, err = bk.Ledger.Withdraw(account, amount, time.Now())
	}
	if err != nil {
		return err
	}
	fmt.Printf("Balance: %.2f INR\n", balance)
	return nil
}

func runAccountTransfer(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("source account: %w", err)
	}
	amount, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	if err := authenticate(bk, from); err != nil {
		return err
	}
	if transferByUPI {
		err = bk.Ledger.TransferUPI(from, args[1], amount, time.Now())
	} else {
		var to int
		if to, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("destination account: %w", err)
		}
		err = bk.Ledger.Transfer(from, to, amount, time.Now())
	}
	if err != nil {
		return err
	}
	fmt.Printf("Transferred %.2f INR from %d to %s\n", amount, from, args[1])
	return nil
}

func runAccountStatement(cmd *cobra.Command, args []string) error {
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
	entries, err := bk.Ledger.MiniStatement(account, statementCount)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("No transactions for account %d.\n", account)
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %-12s %+12.2f  balance %12.2f  %s\n",
			e.Time.Format(store.TimeLayout), e.Type, e.Amount, e.BalanceAfter, e.Note)
	}
	return nil
}

func runAccountList(cmd *cobra.Command, args []string) error {
	bk, err := openBank()
	if err != nil {
		return err
	}
	defer bk.Close()

	fmt.Printf("%-6s %-20s %-8s %-16s %14s %s\n",
		"NO", "NAME", "TYPE", "UPI", "BALANCE (INR)", "STATUS")
	for _, a := range bk.Ledger.Accounts() {
		status := "active"
		if a.Frozen {
			status = "FROZEN"
		} else if !a.Active {
			status = "closed"
		}
		fmt.Printf("%-6d %-20s %-8s %-16s %14.2f %s\n",
			a.Number, a.Name, a.Type, a.UPI, a.Balance, status)
	}
	return nil
}
