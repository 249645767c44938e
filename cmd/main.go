package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"gitstats/logger"
)

func main() {
	// A missing .env is fine; the environment and flags still apply
	_ = godotenv.Load()

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
