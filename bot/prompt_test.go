package bot

import (
	"strings"
	"testing"
)

func TestConversationPrompt(t *testing.T) {
	history := []string{"alice: hi", "bob: hey"}
	prompt := conversationPrompt(history)

	if !strings.HasPrefix(prompt, "TASK: You are cool-ai-man") {
		t.Error("prompt should open with the conversation task")
	}
	if !strings.Contains(prompt, "CONVERSATION: alice: hi\nbob: hey") {
		t.Error("prompt should carry the history joined by newlines")
	}
}

func TestBlackjackPrompt(t *testing.T) {
	prompt := blackjackPrompt([]string{"alice: hit me"})

	if !strings.Contains(prompt, "dealer of an underground gambling ring") {
		t.Error("prompt should use the dealer task")
	}
	if !strings.Contains(prompt, "CONVERSATION: alice: hit me") {
		t.Error("prompt should carry the history")
	}
}

func TestRoomPrompt(t *testing.T) {
	prompt := roomPrompt([]string{"alice: hi"}, "bob", "what now?", "pirate")

	if !strings.Contains(prompt, "CONVERSATION: alice: hi\nbob: what now?") {
		t.Error("prompt should end the conversation with the triggering line")
	}
	if !strings.Contains(prompt, "pirate") {
		t.Error("prompt should carry the persona directive")
	}
	if !strings.Contains(prompt, "Keep it short and engaging.") {
		t.Error("prompt should close with the steering suffix")
	}
}

func TestCapFragment(t *testing.T) {
	if got := capFragment("short", 100); got != "short" {
		t.Errorf("short fragment should pass through, got %q", got)
	}
	if got := capFragment("héllo", 3); got != "hél" {
		t.Errorf("cap should count runes, got %q", got)
	}
}
