// internal/roller/service.go
//
// Roll service shared by every integration surface (Discord bot, HTTP API, CLI).
// Responsibilities:
//   - Apply the two input framings: direct (always evaluate, surface errors)
//     and triggered (require the r/R marker, drop anything that fails).
//   - Bound input length, dice per trial and advantage magnitude before any
//     dice are drawn; the dice engine itself trusts its input.
//   - Cache successful parses, derive seeded sources for replayable rolls.
//   - Count outcomes in Prometheus and log them with zerolog.

package roller

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rollbot/internal/dice"
	"github.com/robalobadob/rollbot/internal/seed"
	"github.com/robalobadob/rollbot/internal/store"
)

var (
	// ErrInputTooLong rejects expressions longer than Limits.MaxInputLength.
	ErrInputTooLong = errors.New("expression too long")
	// ErrTooManyDice rejects trials drawing more than Limits.MaxDice dice.
	ErrTooManyDice = errors.New("too many dice")
	// ErrAdvantageTooLarge rejects advantage runs beyond Limits.MaxAdvantage.
	ErrAdvantageTooLarge = errors.New("advantage too large")
)

// Limits bound the cost of a single roll. Zero fields are unlimited.
type Limits struct {
	MaxDice        uint64 // dice drawn per trial, summed over terms
	MaxAdvantage   int    // |advantage|; trials = |advantage|+1
	MaxInputLength int    // bytes of expression text
}

// Options configure a Service. Zero values fall back to sensible defaults.
type Options struct {
	Limits   Limits
	Source   dice.Source // defaults to dice.System
	Cache    store.Store // defaults to no caching
	Metrics  *Metrics    // nil disables metrics
	SeedSalt string      // HMAC salt for Request.Seed
}

// Service evaluates dice expressions for callers.
type Service struct {
	limits  Limits
	source  dice.Source
	cache   store.Store
	metrics *Metrics
	salt    string
}

// New constructs a Service.
func New(opts Options) *Service {
	s := &Service{
		limits:  opts.Limits,
		source:  opts.Source,
		cache:   opts.Cache,
		metrics: opts.Metrics,
		salt:    opts.SeedSalt,
	}
	if s.source == nil {
		s.source = dice.System
	}
	if s.cache == nil {
		s.cache = store.NewMemoryStore(0)
	}
	return s
}

// Request is a direct-framing roll.
type Request struct {
	Expr string
	// Seed, when set, makes the roll replayable: the same Seed (under the
	// same salt) draws the same dice.
	Seed string
}

// Result is a rendered roll together with its structure.
type Result struct {
	Text    string
	Roll    dice.Roll
	Outcome dice.RollResult
}

// Roll evaluates req.Expr as an isolated expression. Every failure is
// returned; its Error() text is suitable for showing to the requester.
func (s *Service) Roll(ctx context.Context, req Request) (Result, error) {
	res, status, err := s.evaluate(ctx, req.Expr, req.Seed)
	s.metrics.observe(FramingDirect, status)
	log.Debug().
		Str("framing", FramingDirect).
		Str("expr", req.Expr).
		Str("status", status).
		Err(err).
		Msg("roll")
	return res, err
}

// Scan evaluates free-form text that must start with the r/R marker.
// ok is false for text that is not a roll or fails in any way; callers
// drop those silently.
func (s *Service) Scan(ctx context.Context, text string) (res Result, ok bool) {
	body, marked := dice.TriggeredBody(text)
	if !marked {
		return Result{}, false
	}
	res, status, err := s.evaluate(ctx, body, "")
	s.metrics.observe(FramingTriggered, status)
	log.Debug().
		Str("framing", FramingTriggered).
		Str("expr", body).
		Str("status", status).
		Err(err).
		Msg("roll")
	return res, err == nil
}

func (s *Service) evaluate(ctx context.Context, expr, seedKey string) (Result, string, error) {
	if limit := s.limits.MaxInputLength; limit > 0 && len(expr) > limit {
		return Result{}, statusRejected, fmt.Errorf("%w: %d bytes, limit is %d", ErrInputTooLong, len(expr), limit)
	}

	roll, err := s.parse(ctx, expr)
	if err != nil {
		return Result{}, statusSyntax, err
	}
	if err := dice.Validate(roll); err != nil {
		return Result{}, statusValidation, err
	}
	if err := s.checkLimits(roll); err != nil {
		return Result{}, statusRejected, err
	}

	src := s.source
	if seedKey != "" {
		src = dice.Seeded(seed.Derive(s.salt, seedKey))
	}
	out, err := dice.Evaluate(roll, src)
	if err != nil {
		return Result{}, statusValidation, err
	}
	s.metrics.drew(roll.DiceCount() * uint64(roll.Trials()))

	return Result{Text: out.Render(), Roll: roll, Outcome: out}, statusOK, nil
}

func (s *Service) parse(ctx context.Context, expr string) (dice.Roll, error) {
	if roll, ok := s.cache.Get(ctx, expr); ok {
		return roll, nil
	}
	roll, err := dice.Parse(expr)
	if err != nil {
		return dice.Roll{}, err
	}
	if err := s.cache.Save(ctx, expr, roll); err != nil {
		log.Warn().Err(err).Str("expr", expr).Msg("cache parse")
	}
	return roll, nil
}

func (s *Service) checkLimits(roll dice.Roll) error {
	if limit := s.limits.MaxDice; limit > 0 {
		if n := roll.DiceCount(); n > limit {
			return fmt.Errorf("%w: %d per roll, limit is %d", ErrTooManyDice, n, limit)
		}
	}
	if limit := s.limits.MaxAdvantage; limit > 0 {
		if n := roll.Trials() - 1; n > limit {
			return fmt.Errorf("%w: %d, limit is %d", ErrAdvantageTooLarge, n, limit)
		}
	}
	return nil
}
