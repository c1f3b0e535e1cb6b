package bot

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

func TestVoiceChannelForUser(t *testing.T) {
	conn := newFakeDiscord()
	conn.voiceStates = []*discordgo.VoiceState{
		{UserID: "u1", ChannelID: "vc1"},
		{UserID: "u2", ChannelID: "vc2"},
		{UserID: "u3", ChannelID: ""},
	}

	t.Run("Finds The User's Channel", func(t *testing.T) {
		channelID, err := voiceChannelForUser(conn, "g1", "u2")
		if err != nil {
			t.Fatal(err)
		}
		if channelID != "vc2" {
			t.Errorf("expected vc2, got %s", channelID)
		}
	})

	t.Run("Absent User", func(t *testing.T) {
		_, err := voiceChannelForUser(conn, "g1", "nobody")
		if !errors.Is(err, ErrNotInVoice) {
			t.Errorf("expected ErrNotInVoice, got %v", err)
		}
	})

	t.Run("Empty Channel Means Not Connected", func(t *testing.T) {
		_, err := voiceChannelForUser(conn, "g1", "u3")
		if !errors.Is(err, ErrNotInVoice) {
			t.Errorf("expected ErrNotInVoice, got %v", err)
		}
	})
}

func TestPlaybackHandoff(t *testing.T) {
	arbiter := NewVoiceArbiter(log.New(io.Discard))
	session := &voiceSession{conn: &discordgo.VoiceConnection{}, channelID: "vc1"}
	arbiter.sessions["g1"] = session

	ctxA, _, releaseA, err := arbiter.acquire(context.Background(), "g1")
	if err != nil {
		t.Fatal(err)
	}
	ctxB, _, releaseB, err := arbiter.acquire(context.Background(), "g1")
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-ctxA.Done():
	default:
		t.Fatal("takeover should cancel the older playback")
	}
	select {
	case <-ctxB.Done():
		t.Fatal("takeover should leave the newer playback running")
	default:
	}

	// The superseded playback's cleanup runs after the takeover. It must not
	// deregister the active playback.
	releaseA()
	if session.cancel == nil {
		t.Fatal("stale cleanup deregistered the active playback")
	}

	arbiter.Stop("g1")
	select {
	case <-ctxB.Done():
	default:
		t.Error("stop should still reach the active playback")
	}

	releaseB()
	if session.cancel != nil {
		t.Error("the owner's cleanup should clear the registration")
	}
}

func TestDisconnectAll(t *testing.T) {
	arbiter := NewVoiceArbiter(log.New(io.Discard))

	playCtx, cancel := context.WithCancel(context.Background())
	arbiter.sessions["g1"] = &voiceSession{channelID: "vc1", cancel: cancel}
	arbiter.sessions["g2"] = &voiceSession{channelID: "vc2"}

	arbiter.DisconnectAll()

	if arbiter.Connected("g1") || arbiter.Connected("g2") {
		t.Error("all sessions should be dropped")
	}
	select {
	case <-playCtx.Done():
	default:
		t.Error("active playback should be cancelled on shutdown")
	}
}

func TestVoiceArbiterWithoutSession(t *testing.T) {
	arbiter := NewVoiceArbiter(log.New(io.Discard))

	if arbiter.Connected("g1") {
		t.Error("fresh arbiter should not report a connection")
	}

	// Stop and Disconnect on an unknown guild are safe no-ops.
	arbiter.Stop("g1")
	if err := arbiter.Disconnect("g1"); err != nil {
		t.Errorf("disconnect without session should be a no-op, got %v", err)
	}

	frames := make(chan []byte)
	close(frames)
	if err := arbiter.Play(context.Background(), "g1", frames); err == nil {
		t.Error("play without a session should fail")
	}
}
