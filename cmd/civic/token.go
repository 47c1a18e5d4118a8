package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sumire/civic/internal/service"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Mint a staff access token for the API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return err
		}
		tokens := service.NewTokenService(service.TokenConfig{AccessSecret: cfg.AuthJWTSecret})
		if !tokens.AccessEnabled() {
			return fmt.Errorf("AUTH_JWT_SECRET is not set")
		}
		token, err := tokens.IssueAccessToken(args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(ui.Out, token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "token lifetime")
}
