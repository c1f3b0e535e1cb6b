package bot

import (
	"fmt"
	"testing"
)

func TestHistoryStoreRefresh(t *testing.T) {
	key := GuildChannelKey{GuildID: "g1", ChannelName: "ai-chatroom"}

	t.Run("Replaces Prior State", func(t *testing.T) {
		store, err := NewHistoryStore(8, 5)
		if err != nil {
			t.Fatal(err)
		}

		store.Refresh(key, []string{"alice: one", "bob: two"})
		store.Refresh(key, []string{"carol: three"})

		lines := store.Lines(key)
		if len(lines) != 1 || lines[0] != "carol: three" {
			t.Errorf("Refresh did not replace state, got %v", lines)
		}
	})

	t.Run("Truncates From The Front", func(t *testing.T) {
		store, err := NewHistoryStore(8, 3)
		if err != nil {
			t.Fatal(err)
		}

		var lines []string
		for i := 0; i < 7; i++ {
			lines = append(lines, fmt.Sprintf("alice: msg %d", i))
		}
		store.Refresh(key, lines)

		got := store.Lines(key)
		if len(got) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(got))
		}
		if got[0] != "alice: msg 4" || got[2] != "alice: msg 6" {
			t.Errorf("expected newest three lines oldest-first, got %v", got)
		}
	})

	t.Run("Keeps A Copy", func(t *testing.T) {
		store, err := NewHistoryStore(8, 5)
		if err != nil {
			t.Fatal(err)
		}

		source := []string{"alice: one"}
		store.Refresh(key, source)
		source[0] = "mallory: mutated"

		if got := store.Lines(key)[0]; got != "alice: one" {
			t.Errorf("store aliased caller slice, got %q", got)
		}
	})
}

func TestHistoryStoreAppendAndTrim(t *testing.T) {
	key := GuildChannelKey{GuildID: "g1", ChannelName: "ai-chatroom"}

	store, err := NewHistoryStore(8, 3)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5; i++ {
		store.AppendAndTrim(key, fmt.Sprintf("alice: msg %d", i))
	}

	lines := store.Lines(key)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines after trim, got %d", len(lines))
	}
	if lines[0] != "alice: msg 2" {
		t.Errorf("expected oldest entries evicted first, got %v", lines)
	}
	if lines[2] != "alice: msg 4" {
		t.Errorf("expected newest entry last, got %v", lines)
	}
}

func TestHistoryStoreReset(t *testing.T) {
	key := GuildChannelKey{GuildID: "g1", ChannelName: "ai-chatroom"}

	store, err := NewHistoryStore(8, 5)
	if err != nil {
		t.Fatal(err)
	}

	store.Refresh(key, []string{"alice: one", "bob: two"})
	store.Reset(key)

	if lines := store.Lines(key); len(lines) != 0 {
		t.Errorf("expected empty history after reset, got %v", lines)
	}
}

func TestHistoryStoreIndependentStreams(t *testing.T) {
	store, err := NewHistoryStore(8, 5)
	if err != nil {
		t.Fatal(err)
	}

	a := GuildChannelKey{GuildID: "g1", ChannelName: "ai-chatroom"}
	b := GuildChannelKey{GuildID: "g1", ChannelName: "blackjack-ai-bot"}
	c := GuildChannelKey{GuildID: "g2", ChannelName: "ai-chatroom"}

	store.AppendAndTrim(a, "alice: in a")
	store.AppendAndTrim(b, "bob: in b")
	store.AppendAndTrim(c, "carol: in c")

	if got := store.Lines(a); len(got) != 1 || got[0] != "alice: in a" {
		t.Errorf("stream a polluted: %v", got)
	}
	if got := store.Lines(b); len(got) != 1 || got[0] != "bob: in b" {
		t.Errorf("stream b polluted: %v", got)
	}
	if got := store.Lines(c); len(got) != 1 || got[0] != "carol: in c" {
		t.Errorf("stream c polluted: %v", got)
	}
}

func TestHistoryStoreEvictsColdStreams(t *testing.T) {
	store, err := NewHistoryStore(2, 5)
	if err != nil {
		t.Fatal(err)
	}

	a := GuildChannelKey{GuildID: "g1", ChannelName: "one"}
	b := GuildChannelKey{GuildID: "g1", ChannelName: "two"}
	c := GuildChannelKey{GuildID: "g1", ChannelName: "three"}

	store.AppendAndTrim(a, "alice: a")
	store.AppendAndTrim(b, "bob: b")
	store.AppendAndTrim(c, "carol: c")

	if lines := store.Lines(a); len(lines) != 0 {
		t.Errorf("expected oldest stream evicted, got %v", lines)
	}
	if lines := store.Lines(c); len(lines) != 1 {
		t.Errorf("expected newest stream retained, got %v", lines)
	}
}
