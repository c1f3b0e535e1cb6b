package bot

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"coolai/audio"
	"coolai/gcs"
	"coolai/gemini"
	"coolai/safety"
	"coolai/tts"
)

type CommandHandler func(*discordgo.MessageCreate, []string) error

// Bot bridges Discord channels to the generative services. It owns the
// conversation histories, session state, and voice arbiter; everything else
// is an injected collaborator.
type Bot struct {
	cfg  Config
	log  *log.Logger
	conn Discord

	gen    gemini.Generator
	images gemini.ImageGenerator
	speech tts.SpeechGenerator
	store  gcs.Store
	scorer safety.Scorer

	history *HistoryStore
	session *SessionState
	voice   *VoiceArbiter

	commands map[string]CommandHandler
	http     *http.Client
}

func NewBot(
	conn Discord,
	gen gemini.Generator,
	images gemini.ImageGenerator,
	speech tts.SpeechGenerator,
	store gcs.Store,
	scorer safety.Scorer,
	cfg Config,
	logger *log.Logger,
) (*Bot, error) {
	cfg = cfg.withDefaults()

	history, err := NewHistoryStore(defaultHistoryChannels, cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("create history store: %w", err)
	}

	bot := &Bot{
		cfg:      cfg,
		log:      logger,
		conn:     conn,
		gen:      gen,
		images:   images,
		speech:   speech,
		store:    store,
		scorer:   scorer,
		history:  history,
		session:  NewSessionState(cfg.HistoryLimit),
		voice:    NewVoiceArbiter(logger),
		commands: make(map[string]CommandHandler),
		http:     &http.Client{Timeout: 30 * time.Second},
	}

	bot.registerCommands()

	bot.conn.AddHandler(bot.handleReady)
	bot.conn.AddHandler(bot.handleMessageCreate)

	if err := bot.conn.Open(); err != nil {
		return nil, fmt.Errorf("open discord connection: %w", err)
	}

	bot.log.Info("bot connected")
	return bot, nil
}

func (bot *Bot) Close() error {
	bot.voice.DisconnectAll()
	return bot.conn.Close()
}

func (bot *Bot) handleReady(_ *discordgo.Session, r *discordgo.Ready) {
	bot.log.Info(
		"logged in",
		"user", r.User.Username,
		"id", r.User.ID,
		"guilds", len(r.Guilds),
	)
}

func (bot *Bot) handleMessageCreate(
	_ *discordgo.Session,
	m *discordgo.MessageCreate,
) {
	if m.Author == nil || m.GuildID == "" {
		return
	}

	if strings.HasPrefix(m.Content, "!") {
		if m.Author.ID == bot.conn.MyUserID() {
			return
		}
		bot.dispatchCommand(m)
		return
	}

	bot.routeMessage(m)
}

func (bot *Bot) dispatchCommand(m *discordgo.MessageCreate) {
	args := strings.Fields(strings.TrimPrefix(m.Content, "!"))
	if len(args) == 0 {
		return
	}

	handler, ok := bot.commands[args[0]]
	if !ok {
		// Unknown bangs belong to some other bot.
		return
	}

	bot.log.Info(
		"command",
		"name", args[0],
		"author", m.Author.Username,
		"guild", m.GuildID,
	)

	if err := handler(m, args[1:]); err != nil {
		bot.log.Error(
			"command failed",
			"command", args[0],
			"error", err.Error(),
		)
		bot.sendMessage(m.ChannelID, fmt.Sprintf("Error: %s", err))
	}
}

// allowedGuild is the debug gate: when debug mode is on, gated commands
// only work in the configured debug guild.
func (bot *Bot) allowedGuild(guildID string) bool {
	if bot.cfg.Debug && guildID != bot.cfg.DebugGuildID {
		bot.log.Info(
			"debug mode: ignoring command outside debug guild",
			"guild", guildID,
		)
		return false
	}
	return true
}

func (bot *Bot) sendMessage(channelID, content string) {
	if _, err := bot.conn.ChannelMessageSend(channelID, content); err != nil {
		bot.log.Error("send message", "error", err.Error())
	}
}

// sendText delivers reply text in order, chunked to the platform limit.
// Empty text is dropped; the platform rejects empty messages.
func (bot *Bot) sendText(channelID, text string) {
	if strings.TrimSpace(text) == "" {
		bot.log.Warn("model returned no text", "channel", channelID)
		return
	}
	for _, chunk := range chunkMessage(text) {
		bot.sendMessage(channelID, chunk)
	}
}

func (bot *Bot) sendError(channelID string, err error) {
	bot.sendMessage(channelID, fmt.Sprintf("Error: %s", err))
}

// playText synthesizes the reply and blocks until playback finishes.
func (bot *Bot) playText(
	ctx context.Context,
	guildID, text string,
) error {
	var mp3 bytes.Buffer
	if err := bot.speech.TextToSpeech(ctx, text, &mp3); err != nil {
		return fmt.Errorf("synthesize reply: %w", err)
	}

	frames, err := audio.Mp3ToOpusFrames(ctx, mp3.Bytes())
	if err != nil {
		return fmt.Errorf("encode reply audio: %w", err)
	}

	return bot.voice.Play(ctx, guildID, frames)
}

// speakReply is the auto-voice path after a chat or room turn: follow the
// author into their voice channel and play. Authors outside voice are
// skipped quietly; the toggled-off case disconnects instead.
func (bot *Bot) speakReply(
	ctx context.Context,
	m *discordgo.MessageCreate,
	text string,
	voiceActive bool,
) {
	if !voiceActive {
		if bot.voice.Connected(m.GuildID) {
			if err := bot.voice.Disconnect(m.GuildID); err != nil {
				bot.log.Warn("leave voice", "error", err)
			}
		}
		return
	}

	channelID, err := voiceChannelForUser(bot.conn, m.GuildID, m.Author.ID)
	if err != nil {
		bot.log.Debug("skip voice reply", "reason", err)
		return
	}
	if err := bot.voice.Connect(bot.conn, m.GuildID, channelID); err != nil {
		bot.log.Error("voice connect", "error", err.Error())
		return
	}
	if err := bot.playText(ctx, m.GuildID, text); err != nil {
		bot.log.Error("voice playback", "error", err.Error())
	}
}
