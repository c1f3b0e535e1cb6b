package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// ChannelRole is the closed set of channel personalities the router knows.
// Resolution is by configured channel name; anything else is RoleNone.
type ChannelRole int

const (
	RoleNone ChannelRole = iota
	RoleConversation
	RoleBlackjack
	RoleRoom
)

func (bot *Bot) roleForChannel(name string) ChannelRole {
	switch name {
	case bot.cfg.ConversationChannel:
		return RoleConversation
	case bot.cfg.BlackjackChannel:
		return RoleBlackjack
	case bot.cfg.RoomChannel:
		return RoleRoom
	default:
		return RoleNone
	}
}

// routeMessage sends a non-command message to its channel's handler.
func (bot *Bot) routeMessage(m *discordgo.MessageCreate) {
	channel, err := bot.conn.Channel(m.ChannelID)
	if err != nil {
		bot.log.Error(
			"resolve channel",
			"channel", m.ChannelID,
			"error", err.Error(),
		)
		return
	}

	key := GuildChannelKey{GuildID: m.GuildID, ChannelName: channel.Name}

	switch bot.roleForChannel(channel.Name) {
	case RoleConversation:
		bot.handleConversation(m, key)
	case RoleBlackjack:
		bot.handleBlackjack(m, key)
	case RoleRoom:
		bot.handleRoom(m, key)
	case RoleNone:
	}
}

func (bot *Bot) handleConversation(
	m *discordgo.MessageCreate,
	key GuildChannelKey,
) {
	if !bot.session.ChatActive() || m.Author.ID == bot.conn.MyUserID() {
		return
	}
	bot.chatTurn(m, key, conversationPrompt)
}

func (bot *Bot) handleBlackjack(
	m *discordgo.MessageCreate,
	key GuildChannelKey,
) {
	if !bot.session.ChatActive() || m.Author.ID == bot.conn.MyUserID() {
		return
	}
	bot.chatTurn(m, key, blackjackPrompt)
}

// chatTurn is one conversation or blackjack exchange: refresh history from
// the platform, assemble the prompt, generate, post-process, deliver, and
// record our own line. A failed history read skips the turn; it never takes
// the process down.
func (bot *Bot) chatTurn(
	m *discordgo.MessageCreate,
	key GuildChannelKey,
	assemble func([]string) string,
) {
	if err := bot.refreshHistory(m.ChannelID, key); err != nil {
		bot.log.Error("refresh history", "error", err.Error())
		bot.sendError(m.ChannelID, err)
		return
	}

	ctx := context.Background()
	prompt := assemble(bot.history.Lines(key))

	text, err := bot.respond(ctx, m.Message, prompt, true)
	if err != nil {
		bot.sendError(m.ChannelID, err)
		return
	}

	text = stripSpeakerEcho(text, botSpeaker)
	if text == "" {
		bot.log.Warn("model returned no text", "channel", m.ChannelID)
		return
	}
	bot.sendText(m.ChannelID, text)
	bot.history.AppendAndTrim(key, botSpeaker+": "+text)

	bot.speakReply(ctx, m, text, bot.session.ChatVoiceActive())
}

// refreshHistory replaces the stream with the platform's view of the
// channel, oldest first. The window regrows gradually after a reset.
func (bot *Bot) refreshHistory(
	channelID string,
	key GuildChannelKey,
) error {
	limit := bot.session.RefreshLimit(key)

	messages, err := bot.conn.ChannelMessages(channelID, limit, "", "", "")
	if err != nil {
		return fmt.Errorf("read channel history: %w", err)
	}

	// The API returns newest first.
	lines := make([]string, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Author == nil {
			continue
		}
		lines = append(lines, msg.Author.Username+": "+msg.Content)
	}

	bot.history.Refresh(key, lines)
	return nil
}
