package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// ErrNotInVoice means the invoking user has no active voice connection, so
// there is no channel to play into.
var ErrNotInVoice = errors.New("user is not connected to a voice channel")

var errNoVoiceSession = errors.New("no voice session for guild")

// VoiceArbiter owns the one voice connection each guild gets. It joins or
// moves on demand and serializes playback: a new request cancels whatever
// is still playing, so the last writer wins the connection.
type VoiceArbiter struct {
	mu       sync.Mutex
	sessions map[string]*voiceSession // guildID
	log      *log.Logger
}

type voiceSession struct {
	conn      *discordgo.VoiceConnection
	channelID string
	cancel    context.CancelFunc // active playback, nil while idle
	playback  uint64             // increments per takeover
}

func NewVoiceArbiter(logger *log.Logger) *VoiceArbiter {
	return &VoiceArbiter{
		sessions: make(map[string]*voiceSession),
		log:      logger,
	}
}

// Connect joins the target channel, moving the existing connection when it
// sits in a different channel.
func (v *VoiceArbiter) Connect(
	conn Discord,
	guildID, channelID string,
) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	session := v.sessions[guildID]
	if session != nil && session.channelID == channelID {
		return nil
	}

	if session != nil {
		if err := session.conn.ChangeChannel(channelID, false, true); err != nil {
			return fmt.Errorf("move voice connection: %w", err)
		}
		session.channelID = channelID
		v.log.Info("moved voice channel", "guild", guildID, "channel", channelID)
		return nil
	}

	vc, err := conn.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return fmt.Errorf("join voice channel: %w", err)
	}
	v.sessions[guildID] = &voiceSession{conn: vc, channelID: channelID}
	v.log.Info("joined voice channel", "guild", guildID, "channel", channelID)
	return nil
}

func (v *VoiceArbiter) Connected(guildID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sessions[guildID] != nil
}

// Play streams Opus frames over the guild's connection, blocking until the
// frame channel drains or the playback is cancelled by a newer request.
func (v *VoiceArbiter) Play(
	ctx context.Context,
	guildID string,
	frames <-chan []byte,
) error {
	playCtx, conn, release, err := v.acquire(ctx, guildID)
	if err != nil {
		return err
	}
	defer release()

	if err := conn.Speaking(true); err != nil {
		return fmt.Errorf("set speaking state: %w", err)
	}
	defer func() {
		if err := conn.Speaking(false); err != nil {
			v.log.Warn("clear speaking state", "error", err)
		}
	}()

	for {
		select {
		case <-playCtx.Done():
			return playCtx.Err()
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			select {
			case <-playCtx.Done():
				return playCtx.Err()
			case conn.OpusSend <- frame:
			}
		}
	}
}

// acquire cancels the guild's active playback and registers the new one as
// the owner. The returned release clears the registration only while this
// playback still owns it, so a superseded playback's cleanup cannot
// deregister its successor.
func (v *VoiceArbiter) acquire(
	ctx context.Context,
	guildID string,
) (context.Context, *discordgo.VoiceConnection, func(), error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	session := v.sessions[guildID]
	if session == nil {
		return nil, nil, nil, errNoVoiceSession
	}
	if session.cancel != nil {
		session.cancel()
	}

	playCtx, cancel := context.WithCancel(ctx)
	session.cancel = cancel
	session.playback++
	playback := session.playback

	release := func() {
		cancel()
		v.mu.Lock()
		if session.playback == playback {
			session.cancel = nil
		}
		v.mu.Unlock()
	}
	return playCtx, session.conn, release, nil
}

// Stop cancels the guild's active playback, if any.
func (v *VoiceArbiter) Stop(guildID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if session := v.sessions[guildID]; session != nil && session.cancel != nil {
		session.cancel()
		session.cancel = nil
	}
}

// Disconnect stops playback and drops the guild's connection.
func (v *VoiceArbiter) Disconnect(guildID string) error {
	v.mu.Lock()
	session := v.sessions[guildID]
	delete(v.sessions, guildID)
	v.mu.Unlock()

	if session == nil {
		return nil
	}
	if session.cancel != nil {
		session.cancel()
	}
	if session.conn != nil {
		if err := session.conn.Disconnect(); err != nil {
			return fmt.Errorf("disconnect voice: %w", err)
		}
	}
	v.log.Info("left voice channel", "guild", guildID)
	return nil
}

// DisconnectAll drops every guild's connection, for shutdown. The guild set
// is snapshotted under the lock so in-flight handlers can't race the sweep.
func (v *VoiceArbiter) DisconnectAll() {
	v.mu.Lock()
	guilds := make([]string, 0, len(v.sessions))
	for guildID := range v.sessions {
		guilds = append(guilds, guildID)
	}
	v.mu.Unlock()

	for _, guildID := range guilds {
		if err := v.Disconnect(guildID); err != nil {
			v.log.Warn("disconnect voice", "guild", guildID, "error", err)
		}
	}
}

// voiceChannelForUser resolves the channel the user is currently speaking
// in, or ErrNotInVoice.
func voiceChannelForUser(
	conn Discord,
	guildID, userID string,
) (string, error) {
	states, err := conn.GuildVoiceStates(guildID)
	if err != nil {
		return "", fmt.Errorf("guild voice states: %w", err)
	}
	for _, state := range states {
		if state.UserID == userID && state.ChannelID != "" {
			return state.ChannelID, nil
		}
	}
	return "", ErrNotInVoice
}
