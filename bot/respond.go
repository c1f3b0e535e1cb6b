package bot

import "strings"

// maxMessageLength is Discord's per-message character limit.
const maxMessageLength = 2000

// stripSpeakerEcho removes a leading "speaker:" echo the model sometimes
// produces when it has seen its own name in the history. Repeated echoes
// are stripped too; text without the prefix comes back unchanged.
func stripSpeakerEcho(text, speaker string) string {
	prefix := speaker + ":"
	for strings.HasPrefix(text, prefix) {
		text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
	}
	return text
}

// chunkMessage splits text into pieces of at most maxMessageLength
// characters without breaking a character apart. Concatenating the chunks
// reproduces the input exactly.
func chunkMessage(text string) []string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return []string{text}
	}

	var chunks []string
	for len(runes) > 0 {
		n := maxMessageLength
		if len(runes) < n {
			n = len(runes)
		}
		chunks = append(chunks, string(runes[:n]))
		runes = runes[n:]
	}
	return chunks
}
