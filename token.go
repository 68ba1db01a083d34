package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/rollbot/internal/httpserver"
)

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the roll API (signed with JWT_SECRET)",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			days, _ := cmd.Flags().GetInt("days")
			if days <= 0 {
				days = a.cfg.JWTExpiresDays
			}

			tok, exp, err := httpserver.SignToken(a.cfg.JWTSecret, subject, time.Duration(days)*24*time.Hour, time.Now())
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			log.Debug().Str("subject", subject).Time("expires", exp).Msg("token issued")
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().String("subject", "", "Name of the API client (sub claim)")
	cmd.Flags().Int("days", 0, "Lifetime in days (default $JWT_EXPIRES_DAYS)")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
