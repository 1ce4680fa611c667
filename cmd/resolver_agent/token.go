package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/requirement-resolver/internal/config"
	"github.com/jonathan/requirement-resolver/internal/server"
)

var tokenSubject string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the REST API",
	Long: `Generates a signed service token accepted by the API when JWT_SECRET is
set. Expiration follows JWT_EXPIRATION_HOURS (default 24). The token is
printed to stdout; send it as "Authorization: Bearer <token>".`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "", "Client UUID to embed in the token (default random)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("token minting requires JWT_SECRET: %w", err)
	}

	subject := uuid.New()
	if tokenSubject != "" {
		subject, err = uuid.Parse(tokenSubject)
		if err != nil {
			return fmt.Errorf("invalid --subject: %w", err)
		}
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(subject)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
