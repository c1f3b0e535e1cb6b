package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	texttospeech "google.golang.org/api/texttospeech/v1"
)

// SpeechGenerator turns reply text into MP3 audio.
type SpeechGenerator interface {
	TextToSpeech(ctx context.Context, text string, writer io.Writer) error
}

// GoogleSpeechGenerator synthesizes with Cloud Text-to-Speech using a
// Canadian-English voice, the accent the bot has always spoken with.
type GoogleSpeechGenerator struct {
	svc *texttospeech.Service
}

func NewGoogleSpeechGenerator(
	ctx context.Context,
) (*GoogleSpeechGenerator, error) {
	svc, err := texttospeech.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("create text-to-speech service: %w", err)
	}
	return &GoogleSpeechGenerator{svc: svc}, nil
}

func (g *GoogleSpeechGenerator) TextToSpeech(
	ctx context.Context,
	text string,
	writer io.Writer,
) error {
	resp, err := g.svc.Text.Synthesize(&texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: "en-CA",
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: "MP3",
		},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return fmt.Errorf("decode audio content: %w", err)
	}

	if _, err := writer.Write(audio); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}
