package bot

import (
	"fmt"
	"strings"

	"coolai/persona"
)

// botSpeaker is the name the bot answers to in conversation channels, and
// the echo prefix the post-processor strips from replies.
const botSpeaker = "cool-ai-man"

const conversationTask = "TASK: You are cool-ai-man in a conversation. I will provide the conversation." +
	"Read the conversation then respond as someone would to continue the conversation. " +
	"ADDITIONAL INFORMATION: Keep your response short unless you feel details are necessary or are asked for them. " +
	"If someone asks to play a game, try your best to keep track of the game. Even if another conversation is happening. " +
	"If the last part of the conversation doesn't reference anything specific then look back in the conversation to find some context. \n"

const blackjackTask = "TASK: You are the dealer of an underground gambling ring named cool-ai-man running a blackjack game in this conversation. I will provide the conversation." +
	"Read the conversation then respond as the dealer to continue the game. " +
	"ADDITIONAL INFORMATION: Keep track of the game state and respond accordingly. " +
	"You can let players bet unordinary items like their shoes or a favor. " +
	"If someone gets banned from the table let them bet their way back in. " +
	"If someone asks for the rules, explain them briefly. " +
	"If someone asks for their current hand or the dealer's hand, provide the information. " +
	"If someone asks to hit, deal a card to them and update their hand. " +
	"If someone asks to stand, move to the next player or the dealer's turn. " +
	"If someone asks to double down, double their bet and deal one final card to them. " +
	"If someone asks to split, split their hand into two separate hands and deal one card to each hand. " +
	"If the last part of the conversation doesn't reference anything specific then look back in the conversation to find some context. \n"

// conversationPrompt renders the freeform chat request: fixed task, then the
// serialized history.
func conversationPrompt(history []string) string {
	return conversationTask + "CONVERSATION: " + strings.Join(history, "\n")
}

// blackjackPrompt renders the dealer request over the same history shape.
func blackjackPrompt(history []string) string {
	return blackjackTask + "CONVERSATION: " + strings.Join(history, "\n")
}

// roomPrompt renders the AI-room request: history, the triggering line, and
// the selected persona's steering directive.
func roomPrompt(history []string, sender, content, name string) string {
	directive := persona.Room[name]
	return fmt.Sprintf(
		"CONVERSATION: %s\n%s: %s\nTASK: %s Let that influence your response but not take full control of it. "+
			"Respond to the last message of the conversation appropriately. Keep it short and engaging.",
		strings.Join(history, "\n"),
		sender,
		content,
		directive,
	)
}

// capFragment bounds an ad-hoc user fragment before it is spliced into an
// instruction string.
func capFragment(fragment string, cap int) string {
	runes := []rune(fragment)
	if len(runes) <= cap {
		return fragment
	}
	return string(runes[:cap])
}
