// Package main provides the entry point for the requirement resolver.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resolver_agent",
	Short: "Requirement resolver for structured resume documents",
	Long:  "Resolves weighted job requirements against a structured resume document, proposing truthful inline edits where requirements are missing, via CLI or REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
