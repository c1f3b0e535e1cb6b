package bot

import "sync"

// SessionState owns every toggle the command surface flips, plus the
// per-stream reset counters that size history refreshes. One instance is
// constructed at startup and threaded through the handlers; there is no
// ambient global state.
type SessionState struct {
	mu sync.Mutex

	chatActive bool
	chatVoice  bool

	roomActive  bool
	roomVoice   bool
	roomLatched bool

	sinceReset map[GuildChannelKey]int
	maxTracked int
}

func NewSessionState(maxTracked int) *SessionState {
	return &SessionState{
		// Chat engages as soon as the bot is up; the room waits for its
		// first human message instead.
		chatActive: true,
		sinceReset: make(map[GuildChannelKey]int),
		maxTracked: maxTracked,
	}
}

// ToggleChat flips the chat session and returns the new state.
func (s *SessionState) ToggleChat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatActive = !s.chatActive
	return s.chatActive
}

func (s *SessionState) ChatActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatActive
}

func (s *SessionState) ToggleChatVoice() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chatVoice = !s.chatVoice
	return s.chatVoice
}

func (s *SessionState) ChatVoiceActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatVoice
}

// ArmRoom sets the first-message latch. The first qualifying message both
// latches and activates the room; afterwards arming is a no-op. Reports
// whether this call did the arming.
func (s *SessionState) ArmRoom() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.roomLatched {
		return false
	}
	s.roomLatched = true
	s.roomActive = true
	return true
}

func (s *SessionState) RoomLatched() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomLatched
}

func (s *SessionState) RoomActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomActive
}

// StopRoom deactivates the room and drops the latch so the next human
// message can re-arm it.
func (s *SessionState) StopRoom() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomActive = false
	s.roomLatched = false
}

func (s *SessionState) ToggleRoomVoice() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roomVoice = !s.roomVoice
	return s.roomVoice
}

func (s *SessionState) RoomVoiceActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomVoice
}

// RefreshLimit returns how many messages to fetch for a stream. A stream
// starts with a full window; after an explicit reset the window regrows one
// message at a time, so freshly reset channels don't resurrect old context.
func (s *SessionState) RefreshLimit(key GuildChannelKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, seen := s.sinceReset[key]
	if !seen {
		count = s.maxTracked
	} else {
		count++
	}
	s.sinceReset[key] = count

	if count > s.maxTracked {
		return s.maxTracked
	}
	return count
}

// ClearSinceReset marks a stream as freshly reset.
func (s *SessionState) ClearSinceReset(key GuildChannelKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinceReset[key] = 0
}
