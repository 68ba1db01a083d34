package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/rollbot/assets"
	"github.com/robalobadob/rollbot/internal/bot"
	"github.com/robalobadob/rollbot/internal/httpserver"
	"github.com/robalobadob/rollbot/internal/ratelimit"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and, when DISCORD_TOKEN is set, the Discord bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			if port == "" {
				port = a.cfg.Port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			svc := a.newRoller(reg)

			g, ctx := errgroup.WithContext(ctx)

			srv := httpserver.New(httpserver.Options{
				Roller:       svc,
				Limiter:      ratelimit.New(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst, 0),
				Gatherer:     reg,
				ClientOrigin: a.cfg.ClientOrigin,
				JWTSecret:    a.cfg.JWTSecret,
				Help:         assets.Help(),
			})
			g.Go(func() error { return srv.Run(ctx, ":"+port) })

			if a.cfg.DiscordToken != "" {
				b, err := bot.New(bot.Options{
					Token:   a.cfg.DiscordToken,
					GuildID: a.cfg.DiscordGuildID,
					Roller:  svc,
					Limiter: ratelimit.New(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst, 0),
				})
				if err != nil {
					return err
				}
				g.Go(func() error { return b.Run(ctx) })
			} else {
				log.Info().Msg("DISCORD_TOKEN not set, bot disabled")
			}

			log.Info().
				Str("port", port).
				Bool("auth", a.cfg.JWTSecret != "").
				Bool("discord", a.cfg.DiscordToken != "").
				Msg("starting rollbot")
			return g.Wait()
		},
	}
	cmd.Flags().StringP("port", "p", "", "Port to listen on (default $PORT)")
	return cmd
}
