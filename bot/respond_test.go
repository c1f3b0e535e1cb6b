package bot

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestStripSpeakerEcho(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"No Echo", "hello there", "hello there"},
		{"Single Echo", "cool-ai-man: hello there", "hello there"},
		{"Repeated Echo", "cool-ai-man: cool-ai-man: hello", "hello"},
		{"No Space After Colon", "cool-ai-man:hello", "hello"},
		{"Name Mid Text Untouched", "ask cool-ai-man: later", "ask cool-ai-man: later"},
		{"Different Speaker Untouched", "pirate: ahoy", "pirate: ahoy"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripSpeakerEcho(tc.in, botSpeaker); got != tc.want {
				t.Errorf("stripSpeakerEcho(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestChunkMessage(t *testing.T) {
	t.Run("Short Text Is One Chunk", func(t *testing.T) {
		chunks := chunkMessage("hello")
		if len(chunks) != 1 || chunks[0] != "hello" {
			t.Errorf("expected single chunk, got %v", chunks)
		}
	})

	t.Run("Exact Limit Is One Chunk", func(t *testing.T) {
		text := strings.Repeat("a", maxMessageLength)
		if chunks := chunkMessage(text); len(chunks) != 1 {
			t.Errorf("expected single chunk at the limit, got %d", len(chunks))
		}
	})

	t.Run("Long Text Round Trips", func(t *testing.T) {
		text := strings.Repeat("héllo wörld ", 400)
		chunks := chunkMessage(text)

		if len(chunks) < 2 {
			t.Fatalf("expected multiple chunks, got %d", len(chunks))
		}
		for i, chunk := range chunks {
			if n := utf8.RuneCountInString(chunk); n > maxMessageLength {
				t.Errorf("chunk %d has %d runes, limit is %d", i, n, maxMessageLength)
			}
			if !utf8.ValidString(chunk) {
				t.Errorf("chunk %d split a character apart", i)
			}
		}
		if strings.Join(chunks, "") != text {
			t.Error("concatenated chunks do not reproduce the input")
		}
	})
}
