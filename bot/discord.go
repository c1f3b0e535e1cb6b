package bot

import (
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"
)

// Discord is the slice of the platform session the bot actually uses. The
// concrete *discordgo.Session satisfies most of it directly; Session adds
// the handful of lookups that go through local state.
type Discord interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
	MyUserID() string
	Channel(
		channelID string,
		options ...discordgo.RequestOption,
	) (*discordgo.Channel, error)
	ChannelMessages(
		channelID string,
		limit int,
		beforeID, afterID, aroundID string,
		options ...discordgo.RequestOption,
	) ([]*discordgo.Message, error)
	ChannelMessageSend(
		channelID string,
		content string,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	ChannelFileSend(
		channelID, name string,
		r io.Reader,
		options ...discordgo.RequestOption,
	) (*discordgo.Message, error)
	ChannelVoiceJoin(
		gID, cID string,
		mute, deaf bool,
	) (*discordgo.VoiceConnection, error)
	GuildVoiceStates(guildID string) ([]*discordgo.VoiceState, error)
}

// Session wraps *discordgo.Session with the state-backed lookups Discord
// needs beyond the plain REST surface.
type Session struct {
	*discordgo.Session
}

func (s *Session) MyUserID() string {
	if s.State == nil || s.State.User == nil {
		return ""
	}
	return s.State.User.ID
}

// Channel prefers the local state cache and falls back to the API.
func (s *Session) Channel(
	channelID string,
	options ...discordgo.RequestOption,
) (*discordgo.Channel, error) {
	if channel, err := s.State.Channel(channelID); err == nil {
		return channel, nil
	}
	return s.Session.Channel(channelID, options...)
}

func (s *Session) GuildVoiceStates(
	guildID string,
) ([]*discordgo.VoiceState, error) {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("guild %s not in state: %w", guildID, err)
	}
	return guild.VoiceStates, nil
}
