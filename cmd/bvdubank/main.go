package main

import (
	"os"

	"github.com/kaiadhikary/BVDU-Bank/cmd/bvdubank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
