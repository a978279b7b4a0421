// cmd/client/token.go
package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

// tokenCmd signs a token with the server's JWT_SECRET. Meant for local
// development where no identity provider is running.
func tokenCmd() *cobra.Command {
	var (
		userID      string
		email       string
		displayName string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if userID == "" {
				userID = uuid.NewString()
			}
			tm := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TokenDuration)
			token, expiresAt, err := tm.GenerateAccessToken(userID, email, displayName)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "user %s, expires %s\n", userID, expiresAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "User ID (random when empty)")
	cmd.Flags().StringVar(&email, "email", "dev@example.com", "Email claim")
	cmd.Flags().StringVar(&displayName, "name", "", "Display name claim")
	return cmd
}
