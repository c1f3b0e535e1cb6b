package bot

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"coolai/persona"
)

// handleRoom runs the AI conversation room, where catalog personas answer
// each other. The first human message arms the room and gets a reply; after
// that only the bot's own persona messages keep the loop going, so two
// humans can't double-drive it and the bot can't arm itself at startup.
func (bot *Bot) handleRoom(
	m *discordgo.MessageCreate,
	key GuildChannelKey,
) {
	isSelf := m.Author.ID == bot.conn.MyUserID()

	if !bot.session.RoomLatched() {
		if isSelf || m.Author.Bot {
			return
		}
		bot.session.ArmRoom()
	} else if !isSelf {
		return
	}

	if !bot.session.RoomActive() {
		return
	}

	if err := bot.refreshHistory(m.ChannelID, key); err != nil {
		bot.log.Error("refresh history", "error", err.Error())
		// Only report to the human who armed the room. Reporting on our own
		// events would make the posted error the next trigger, and the loop
		// would feed itself for as long as the read keeps failing.
		if !isSelf {
			bot.sendError(m.ChannelID, err)
		}
		return
	}

	// Our own messages carry the speaking persona as a "name:" prefix.
	sender := m.Author.Username
	if isSelf {
		before, _, _ := strings.Cut(m.Content, ":")
		sender = before
	}

	name, ok := persona.PickOther(sender)
	if !ok {
		return
	}
	bot.log.Info("selected persona", "persona", name, "sender", sender)

	// Pacing so personas converse at a readable tempo.
	time.Sleep(bot.cfg.RoomPacing)

	ctx := context.Background()
	prompt := roomPrompt(bot.history.Lines(key), sender, m.Content, name)

	text, err := bot.respond(ctx, m.Message, prompt, true)
	if err != nil {
		bot.sendError(m.ChannelID, err)
		return
	}

	text = stripSpeakerEcho(text, name)
	if text == "" {
		bot.log.Warn("model returned no text", "channel", m.ChannelID)
		return
	}
	line := name + ": " + text
	bot.sendText(m.ChannelID, line)
	bot.history.AppendAndTrim(key, line)

	bot.speakReply(ctx, m, text, bot.session.RoomVoiceActive())
}
