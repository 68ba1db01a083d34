// internal/bot/bot.go
//
// Discord front end for the roll service.
// Responsibilities:
//   - Open a gateway session with the message intents the bot needs.
//   - Register the /r slash command (globally or in one guild) when ready.
//   - Reply to chat messages that start with r/R; ignore everything else.
//   - Answer /r interactions, explaining mistakes privately.
//   - Throttle each user; delivery failures are logged, never fatal.

package bot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rollbot/internal/dice"
	"github.com/robalobadob/rollbot/internal/ratelimit"
	"github.com/robalobadob/rollbot/internal/roller"
)

const (
	commandName = "r"
	optionDice  = "dice"

	// maxContent is Discord's message length limit, in characters.
	maxContent = 2000

	slowDown = "Slow down a little, then roll again."
)

// Intents the gateway session subscribes to.
const Intents = discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// rollCommand is the slash command registered on ready.
var rollCommand = &discordgo.ApplicationCommand{
	Name:        commandName,
	Description: "roll dice",
	Options: []*discordgo.ApplicationCommandOption{{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionDice,
		Description: "dice expression",
		Required:    false,
	}},
}

// session is the slice of *discordgo.Session the handlers use.
type session interface {
	ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ChannelMessageSendReply(channelID, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Options configure a Bot. Token and Roller are required.
type Options struct {
	Token   string
	GuildID string // empty registers /r globally
	Roller  *roller.Service
	Limiter *ratelimit.Limiter // nil disables throttling
}

// Bot answers dice rolls on Discord.
type Bot struct {
	token   string
	guildID string
	roller  *roller.Service
	limiter *ratelimit.Limiter
	now     func() time.Time

	ctx        context.Context
	registered atomic.Bool
}

// New validates opts and constructs a Bot. No connection is made until Run.
func New(opts Options) (*Bot, error) {
	if opts.Token == "" {
		return nil, errors.New("discord token is empty")
	}
	if opts.Roller == nil {
		return nil, errors.New("roller is nil")
	}
	return &Bot{
		token:   opts.Token,
		guildID: opts.GuildID,
		roller:  opts.Roller,
		limiter: opts.Limiter,
		now:     time.Now,
		ctx:     context.Background(),
	}, nil
}

// Run connects to the gateway and serves events until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.token)
	if err != nil {
		return fmt.Errorf("discord session: %w", err)
	}
	dg.Identify.Intents = Intents
	b.ctx = ctx

	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) { b.onReady(s, r) })
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) { b.onMessage(s, m) })
	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) { b.onInteraction(s, i) })

	if err := dg.Open(); err != nil {
		return fmt.Errorf("discord open: %w", err)
	}
	log.Info().Str("guild", b.guildID).Msg("discord connected")

	<-ctx.Done()
	if err := dg.Close(); err != nil {
		return fmt.Errorf("discord close: %w", err)
	}
	log.Info().Msg("discord stopped")
	return nil
}

// onReady registers /r the first time the gateway is ready.
func (b *Bot) onReady(s session, r *discordgo.Ready) {
	if b.registered.Load() {
		return
	}
	appID := ""
	if r.Application != nil {
		appID = r.Application.ID
	}
	if appID == "" && r.User != nil {
		appID = r.User.ID
	}
	if _, err := s.ApplicationCommandCreate(appID, b.guildID, rollCommand); err != nil {
		log.Error().Err(err).Str("guild", b.guildID).Msg("register /r")
		return
	}
	b.registered.Store(true)
	log.Info().Str("app", appID).Str("guild", b.guildID).Msg("registered /r")
}

// onMessage rolls chat messages that use the r/R marker.
func (b *Bot) onMessage(s session, m *discordgo.MessageCreate) {
	if m.Message == nil || m.Author == nil || m.Author.Bot {
		return
	}
	if _, marked := dice.TriggeredBody(m.Content); !marked {
		return
	}
	if !b.limiter.Allow(m.Author.ID, b.now()) {
		log.Debug().Str("user", m.Author.ID).Msg("message throttled")
		return
	}
	res, ok := b.roller.Scan(b.ctx, m.Content)
	if !ok {
		return
	}
	if _, err := s.ChannelMessageSendReply(m.ChannelID, clip(res.Text), m.Reference()); err != nil {
		log.Warn().Err(err).Str("channel", m.ChannelID).Msg("send reply")
	}
}

// onInteraction answers /r.
func (b *Bot) onInteraction(s session, i *discordgo.InteractionCreate) {
	if i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	data := i.ApplicationCommandData()
	if data.Name != commandName {
		return
	}

	user := interactionUser(i.Interaction)
	if !b.limiter.Allow(user, b.now()) {
		b.respond(s, i.Interaction, slowDown, true)
		return
	}

	expr := ""
	for _, opt := range data.Options {
		if opt.Name == optionDice && opt.Type == discordgo.ApplicationCommandOptionString {
			expr = opt.StringValue()
		}
	}

	res, err := b.roller.Roll(b.ctx, roller.Request{Expr: expr})
	if err != nil {
		log.Debug().Err(err).Str("user", user).Str("expr", expr).Msg("slash roll rejected")
		b.respond(s, i.Interaction, err.Error(), true)
		return
	}
	b.respond(s, i.Interaction, res.Text, false)
}

func (b *Bot) respond(s session, in *discordgo.Interaction, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: clip(content)}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := s.InteractionRespond(in, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Warn().Err(err).Str("interaction", in.ID).Msg("respond")
	}
}

// interactionUser is the invoking user's ID in guilds and in DMs.
func interactionUser(in *discordgo.Interaction) string {
	if in.Member != nil && in.Member.User != nil {
		return in.Member.User.ID
	}
	if in.User != nil {
		return in.User.ID
	}
	return ""
}

// clip shortens text to Discord's message limit.
func clip(text string) string {
	r := []rune(text)
	if len(r) <= maxContent {
		return text
	}
	return string(r[:maxContent-1]) + "…"
}
