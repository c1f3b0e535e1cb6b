package bot

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// GuildChannelKey identifies one independent conversation stream. Channels
// are keyed by name, not ID, so a rename fragments history on purpose.
type GuildChannelKey struct {
	GuildID     string
	ChannelName string
}

// HistoryStore keeps a bounded rolling window of rendered "speaker: text"
// lines per conversation stream. Streams themselves live in an LRU cache so
// channels the bot no longer sees eventually fall out.
type HistoryStore struct {
	mu       sync.Mutex
	streams  *lru.Cache[GuildChannelKey, []string]
	maxLines int
}

func NewHistoryStore(maxStreams, maxLines int) (*HistoryStore, error) {
	streams, err := lru.New[GuildChannelKey, []string](maxStreams)
	if err != nil {
		return nil, err
	}
	return &HistoryStore{streams: streams, maxLines: maxLines}, nil
}

// Refresh replaces the stream wholesale with platform-fetched lines, oldest
// first. Lines beyond the window are dropped from the front.
func (h *HistoryStore) Refresh(key GuildChannelKey, lines []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if excess := len(lines) - h.maxLines; excess > 0 {
		lines = lines[excess:]
	}
	h.streams.Add(key, append([]string(nil), lines...))
}

// AppendAndTrim records one line, evicting the oldest past the window.
func (h *HistoryStore) AppendAndTrim(key GuildChannelKey, line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	lines, _ := h.streams.Get(key)
	lines = append(lines, line)
	if len(lines) > h.maxLines {
		lines = lines[len(lines)-h.maxLines:]
	}
	h.streams.Add(key, lines)
}

// Reset clears the stream to empty.
func (h *HistoryStore) Reset(key GuildChannelKey) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.streams.Add(key, nil)
}

// Lines returns a copy of the stream, oldest first.
func (h *HistoryStore) Lines(key GuildChannelKey) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	lines, _ := h.streams.Get(key)
	return append([]string(nil), lines...)
}
