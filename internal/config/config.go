// internal/config/config.go
//
// Process configuration for rollbot.
// Values come from the environment (optionally seeded from a .env file by
// the entry point) and are parsed into a typed Config.
//
// Environment variables:
//   LOG_LEVEL=info            zerolog level (trace..panic)
//   LOG_FORMAT=json           json | console
//   PORT=5175                 HTTP listen port
//   CLIENT_ORIGIN=...         CORS origin for browser clients
//   JWT_SECRET=               enables bearer auth on the roll API when set
//   JWT_EXPIRES_DAYS=14       lifetime of tokens minted by `rollbot token`
//   DISCORD_TOKEN=            enables the Discord bot when set
//   DISCORD_GUILD_ID=         register /r in one guild instead of globally
//   SEED_SALT=...             HMAC salt for caller-supplied seeds
//   MAX_DICE=1000             dice drawn per trial
//   MAX_ADVANTAGE=20          |advantage| per roll (0 = unlimited)
//   MAX_INPUT_LENGTH=256      bytes per expression
//   RATE_LIMIT_RPS=2          rolls per second per caller (0 disables)
//   RATE_LIMIT_BURST=10
//   PARSE_CACHE_SIZE=1024     cached parses (0 disables)

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config is the full runtime configuration.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port           string `env:"PORT" envDefault:"5175"`
	ClientOrigin   string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`
	JWTSecret      string `env:"JWT_SECRET"`
	JWTExpiresDays int    `env:"JWT_EXPIRES_DAYS" envDefault:"14"`

	DiscordToken   string `env:"DISCORD_TOKEN"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID"`

	SeedSalt string `env:"SEED_SALT" envDefault:"local_dev_salt"`

	MaxDice        uint64 `env:"MAX_DICE" envDefault:"1000"`
	MaxAdvantage   int    `env:"MAX_ADVANTAGE" envDefault:"20"`
	MaxInputLength int    `env:"MAX_INPUT_LENGTH" envDefault:"256"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"2"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"10"`

	ParseCacheSize int `env:"PARSE_CACHE_SIZE" envDefault:"1024"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the process configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: want json or console, got %q", c.LogFormat))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT: must not be empty"))
	}
	if c.JWTExpiresDays <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_DAYS: must be positive"))
	}
	if c.MaxDice == 0 {
		errs = append(errs, errors.New("MAX_DICE: must be positive"))
	}
	if c.MaxAdvantage < 0 {
		errs = append(errs, errors.New("MAX_ADVANTAGE: must not be negative"))
	}
	if c.MaxInputLength <= 0 {
		errs = append(errs, errors.New("MAX_INPUT_LENGTH: must be positive"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS/RATE_LIMIT_BURST: must not be negative"))
	}
	return errors.Join(errs...)
}
