package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"coolai/gemini"
)

func (bot *Bot) registerCommands() {
	bot.commands["ai"] = bot.handleAICommand
	bot.commands["imgen"] = bot.handleImgenCommand
	bot.commands["ai-voice"] = bot.handleAIVoiceCommand
	bot.commands["ai-join"] = bot.handleJoinCommand
	bot.commands["ai-leave"] = bot.handleLeaveCommand
	bot.commands["ai-stop"] = bot.handleStopCommand

	bot.commands["ai-chat"] = bot.handleChatToggleCommand
	bot.commands["ai-chat-voice"] = bot.handleChatVoiceCommand
	bot.commands["ai-chat-status"] = bot.handleChatStatusCommand
	bot.commands["ai-chat-reset"] = bot.handleChatResetCommand
	bot.commands["ai-chat-stop"] = bot.handleStopCommand

	bot.commands["ai-conv"] = bot.handleRoomStopCommand
	bot.commands["ai-conv-voice"] = bot.handleRoomVoiceCommand
	bot.commands["ai-conv-reset"] = bot.handleRoomResetCommand

	bot.commands["imagelink"] = bot.handleImageLinkCommand
	bot.commands["videolink"] = bot.handleVideoLinkCommand
}

// handleAICommand is the one-shot `!ai [prompt]` interaction, including
// attachment understanding.
func (bot *Bot) handleAICommand(
	m *discordgo.MessageCreate,
	args []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}

	text, err := bot.respond(
		context.Background(),
		m.Message,
		strings.Join(args, " "),
		false,
	)
	if err != nil {
		return err
	}

	bot.sendText(m.ChannelID, text)
	return nil
}

// handleImgenCommand generates an image and posts it as a file. Empty
// results are retried inside the generator; only the terminal failure
// reaches the user, once.
func (bot *Bot) handleImgenCommand(
	m *discordgo.MessageCreate,
	args []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}
	if len(args) == 0 {
		bot.sendMessage(m.ChannelID, "Usage: !imgen <prompt>")
		return nil
	}

	prompt := strings.Join(args, " ")
	data, err := bot.images.Generate(context.Background(), prompt)
	if errors.Is(err, gemini.ErrNoImages) {
		bot.sendMessage(
			m.ChannelID,
			"Failed to generate images after 3 attempts.",
		)
		return nil
	}
	if err != nil {
		return err
	}

	name := fmt.Sprintf("imgen_%s.png", m.ID)
	if _, err := bot.conn.ChannelFileSend(
		m.ChannelID,
		name,
		bytes.NewReader(data),
	); err != nil {
		return fmt.Errorf("send generated image: %w", err)
	}
	return nil
}

// handleAIVoiceCommand answers a prompt out loud in the caller's voice
// channel, then leaves. The caller must already be in voice; no connection
// is attempted otherwise.
func (bot *Bot) handleAIVoiceCommand(
	m *discordgo.MessageCreate,
	args []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}

	channelID, err := voiceChannelForUser(bot.conn, m.GuildID, m.Author.ID)
	if errors.Is(err, ErrNotInVoice) {
		bot.sendMessage(
			m.ChannelID,
			"You are not connected to a voice channel. Join one and try again.",
		)
		return nil
	}
	if err != nil {
		return err
	}

	ctx := context.Background()
	text, err := bot.respond(ctx, m.Message, strings.Join(args, " "), false)
	if err != nil {
		return err
	}

	bot.sendText(m.ChannelID, text)

	if err := bot.voice.Connect(bot.conn, m.GuildID, channelID); err != nil {
		return err
	}
	if err := bot.playText(ctx, m.GuildID, text); err != nil {
		return err
	}
	return bot.voice.Disconnect(m.GuildID)
}

// handleJoinCommand joins an explicitly named voice channel, or the
// caller's current one when no argument is given.
func (bot *Bot) handleJoinCommand(
	m *discordgo.MessageCreate,
	args []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}

	var channelID string
	if len(args) > 0 {
		// Accept a raw channel ID or a <#id> mention.
		channelID = strings.Trim(args[0], "<#>")
	} else {
		var err error
		channelID, err = voiceChannelForUser(bot.conn, m.GuildID, m.Author.ID)
		if errors.Is(err, ErrNotInVoice) {
			bot.sendMessage(m.ChannelID, "You are not connected to a voice channel.")
			return nil
		}
		if err != nil {
			return err
		}
	}
	return bot.voice.Connect(bot.conn, m.GuildID, channelID)
}

func (bot *Bot) handleLeaveCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}
	return bot.voice.Disconnect(m.GuildID)
}

func (bot *Bot) handleStopCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}
	bot.voice.Stop(m.GuildID)
	return nil
}

func (bot *Bot) handleChatToggleCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}

	status := "stopped"
	if bot.session.ToggleChat() {
		status = "started"
	}
	bot.sendMessage(m.ChannelID, fmt.Sprintf("Chat session %s.", status))
	return nil
}

func (bot *Bot) handleChatVoiceCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}

	status := "stopped"
	if bot.session.ToggleChatVoice() {
		status = "started"
	}
	bot.sendMessage(
		m.ChannelID,
		fmt.Sprintf("Chat voice session %s. Join a voice channel to begin.", status),
	)
	return nil
}

func (bot *Bot) handleChatStatusCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}

	status := "inactive"
	if bot.session.ChatActive() {
		status = "active"
	}
	bot.sendMessage(m.ChannelID, fmt.Sprintf("Chat session is %s.", status))
	return nil
}

// handleChatResetCommand clears the current channel's history and restarts
// its refresh window.
func (bot *Bot) handleChatResetCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	if !bot.allowedGuild(m.GuildID) {
		return nil
	}
	return bot.resetHistory(m)
}

// handleRoomResetCommand is the room's reset. The room commands work in any
// guild regardless of debug mode, like the room itself.
func (bot *Bot) handleRoomResetCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	return bot.resetHistory(m)
}

func (bot *Bot) resetHistory(m *discordgo.MessageCreate) error {
	channel, err := bot.conn.Channel(m.ChannelID)
	if err != nil {
		return fmt.Errorf("resolve channel: %w", err)
	}

	key := GuildChannelKey{GuildID: m.GuildID, ChannelName: channel.Name}
	bot.history.Reset(key)
	bot.session.ClearSinceReset(key)

	bot.sendMessage(
		m.ChannelID,
		fmt.Sprintf(
			"Conversation history for %s has been reset. New messages will be tracked from now on.",
			channel.Name,
		),
	)
	return nil
}

// handleRoomStopCommand shuts the AI room down and drops the latch so a
// fresh human message can restart it.
func (bot *Bot) handleRoomStopCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	bot.session.StopRoom()
	bot.sendMessage(m.ChannelID, "conv session stopped.")
	return nil
}

func (bot *Bot) handleRoomVoiceCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	status := "stopped"
	if bot.session.ToggleRoomVoice() {
		status = "started"
	}
	bot.sendMessage(
		m.ChannelID,
		fmt.Sprintf("conv voice session %s. Join a voice channel to begin.", status),
	)
	return nil
}

func (bot *Bot) handleImageLinkCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	attachment, ok := attachmentOfKind(m.Message, attachmentImage)
	if !ok {
		bot.sendMessage(m.ChannelID, "No image links found in attachments.")
		return nil
	}
	bot.sendMessage(
		m.ChannelID,
		fmt.Sprintf("Image link found: %s", attachment.URL),
	)
	return nil
}

func (bot *Bot) handleVideoLinkCommand(
	m *discordgo.MessageCreate,
	_ []string,
) error {
	attachment, ok := attachmentOfKind(m.Message, attachmentVideo)
	if !ok {
		bot.sendMessage(m.ChannelID, "No video links found in attachments.")
		return nil
	}
	bot.sendMessage(
		m.ChannelID,
		fmt.Sprintf("Video link found: %s", attachment.URL),
	)
	return nil
}
