package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the bvdubank CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bvdubank version %s\n", version)
		fmt.Println("A retail bank with a built-in multi-market trading desk")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
