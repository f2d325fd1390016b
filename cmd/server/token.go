package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/euforicio/scratchpad/internal/server/config"
	"github.com/euforicio/scratchpad/internal/server/handlers"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an account",
	Long: `Print a signed access token for --account. Clients put it into the
token setting (or SCRATCHPAD_TOKEN). Zones are private to the account.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		account, _ := cmd.Flags().GetString("account")
		if account == "" {
			return fmt.Errorf("--account is required")
		}

		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}

		token, expiresAt, err := handlers.GenerateAccessToken(handlers.JWTConfig{
			Secret:         []byte(cfg.JWTSecret),
			AccessTokenTTL: cfg.TokenTTL,
		}, account)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "Token for %s expires %s\n", account, expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("account", "", "account ID the token is issued for")
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (default token_ttl)")
	_ = v.BindPFlag("token_ttl", tokenCmd.Flags().Lookup("ttl"))
}
