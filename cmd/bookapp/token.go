package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/piranimarcos/bookApp/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		token, err := mintToken(loadConfig(conf))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
		return err
	},
}

func init() {
	tokenCmd.Flags().String("user", "", "User id to put in the token.")
	tokenCmd.Flags().Duration("token_ttl", 0, "Token lifetime; zero never expires.")
}

func mintToken(cfg config) (string, error) {
	if cfg.User == "" {
		return "", errors.New("--user is required")
	}

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAlg)
	if err != nil {
		return "", err
	}

	return verifier.Sign(cfg.User, cfg.TokenTTL)
}
