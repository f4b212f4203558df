package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaiadhikary/BVDU-Bank/bank"
	"github.com/kaiadhikary/BVDU-Bank/config"
	"github.com/kaiadhikary/BVDU-Bank/internal/util"
)

var rootCmd = &cobra.Command{
	Use:   "bvdubank",
	Short: "A retail bank with a built-in multi-market trading desk",
	Long: `BVDU Bank combines a retail banking core with a trading desk spanning
the Indian, US and European markets.

It provides tools for:
  - Managing customer accounts: deposits, withdrawals, transfers, UPI
  - Buying and selling assets priced in INR, USD and EUR
  - Valuing portfolios and unrealized P/L in INR at current FX rates
  - Simulating market movement with per-market trading hours
  - Admin operations: price and FX overrides, interest runs, log rotation`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

var (
	cfgPath string
	dataDir string
	pin     int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().IntVarP(&pin, "pin", "p", 0, "account PIN for customer operations")
}

// openBank builds the assembled core from the config file (or defaults) and
// the command-line overrides. Callers must Close it.
func openBank() (*bank.Bank, error) {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	log := util.NewLogger(cfg.Logging.Level)
	return bank.Open(cfg, log)
}

// authenticate checks the --pin flag against the account before a customer
// operation. Three wrong PINs in a row freeze the account.
func authenticate(bk *bank.Bank, account int) error {
	_, err := bk.Ledger.Authenticate(account, pin, time.Now())
	return err
}
