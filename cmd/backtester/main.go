package main

import (
	"os"

	"github.com/Xyxl1kalgo/Backtester-engine/cmd/backtester/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
