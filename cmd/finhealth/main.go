package main

import (
	"os"

	"github.com/wonny/finhealth/cmd/finhealth/commands"
)

// main is the entry point for the finhealth CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/finhealth [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
