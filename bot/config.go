package bot

import "time"

const (
	defaultHistoryLimit = 20
	defaultFragmentCap  = 100
	defaultRoomPacing   = 10 * time.Second

	// Inactive conversation streams beyond this many are evicted oldest
	// first, so long-lived processes don't accumulate dead guilds.
	defaultHistoryChannels = 256
)

// Config is the bot's static configuration, resolved once at startup.
type Config struct {
	// Channel names acting as logical partition keys. Renaming a channel
	// starts a fresh conversation stream.
	ConversationChannel string
	BlackjackChannel    string
	RoomChannel         string

	// HistoryLimit bounds each conversation stream's line count.
	HistoryLimit int

	// FragmentCap truncates ad-hoc user prompt fragments before they are
	// spliced into an instruction.
	FragmentCap int

	// RoomPacing delays each AI-room reply so personas don't machine-gun
	// each other.
	RoomPacing time.Duration

	// Debug restricts guild-scoped commands to DebugGuildID.
	Debug        bool
	DebugGuildID string
}

func (c Config) withDefaults() Config {
	if c.ConversationChannel == "" {
		c.ConversationChannel = "ai-chatroom"
	}
	if c.BlackjackChannel == "" {
		c.BlackjackChannel = "blackjack-ai-bot"
	}
	if c.RoomChannel == "" {
		c.RoomChannel = "ai-conversation-room"
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = defaultHistoryLimit
	}
	if c.FragmentCap <= 0 {
		c.FragmentCap = defaultFragmentCap
	}
	if c.RoomPacing == 0 {
		c.RoomPacing = defaultRoomPacing
	}
	return c
}
