package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"

	"coolai/etc"
	"coolai/persona"
)

type attachmentKind int

const (
	attachmentNone attachmentKind = iota
	attachmentImage
	attachmentVideo
	attachmentDocument
)

func (k attachmentKind) instructionKey() string {
	switch k {
	case attachmentImage:
		return "image"
	case attachmentVideo:
		return "video"
	case attachmentDocument:
		return "document"
	default:
		return "freeform"
	}
}

func (k attachmentKind) label() string {
	switch k {
	case attachmentImage:
		return "Image"
	case attachmentVideo:
		return "Video"
	default:
		return "Document"
	}
}

func classifyAttachment(
	attachment *discordgo.MessageAttachment,
) attachmentKind {
	switch {
	case strings.HasPrefix(attachment.ContentType, "image/"):
		return attachmentImage
	case strings.HasPrefix(attachment.ContentType, "video/"):
		return attachmentVideo
	case strings.HasPrefix(attachment.ContentType, "application/pdf"),
		strings.HasPrefix(attachment.ContentType, "text/plain"):
		return attachmentDocument
	default:
		return attachmentNone
	}
}

// firstAttachment picks the first attachment the bot knows how to handle.
func firstAttachment(
	m *discordgo.Message,
) (*discordgo.MessageAttachment, attachmentKind) {
	for _, attachment := range m.Attachments {
		if kind := classifyAttachment(attachment); kind != attachmentNone {
			return attachment, kind
		}
	}
	return nil, attachmentNone
}

// attachmentOfKind finds the first attachment of one particular kind.
func attachmentOfKind(
	m *discordgo.Message,
	want attachmentKind,
) (*discordgo.MessageAttachment, bool) {
	for _, attachment := range m.Attachments {
		if classifyAttachment(attachment) == want {
			return attachment, true
		}
	}
	return nil, false
}

// respond generates the reply for a message: attachments route through the
// media pipeline, everything else is a plain completion. With raw set the
// prompt is passed through untouched; otherwise it is wrapped in the
// instruction catalog the way the commands expect.
func (bot *Bot) respond(
	ctx context.Context,
	m *discordgo.Message,
	prompt string,
	raw bool,
) (string, error) {
	attachment, kind := firstAttachment(m)

	switch kind {
	case attachmentImage, attachmentVideo:
		return bot.describeMedia(ctx, attachment, kind, prompt, raw)
	case attachmentDocument:
		// Documents go to the model by URL, no staging round-trip.
		return bot.gen.GenerateFile(
			ctx,
			attachment.URL,
			attachment.ContentType,
			bot.mediaInstructions(kind, prompt, raw),
		)
	}

	if raw {
		return bot.gen.GenerateText(ctx, prompt)
	}
	if prompt == "" {
		prompt = persona.Instructions["greeting"]
	}
	instructions := persona.Instructions["freeform"] + " " +
		capFragment(prompt, bot.cfg.FragmentCap)
	return bot.gen.GenerateText(ctx, instructions)
}

// describeMedia stages an image or video: download, park a copy in cloud
// storage, score images for safe search (advisory), hand the bytes to the
// model's file API, generate, then clean both copies up.
func (bot *Bot) describeMedia(
	ctx context.Context,
	attachment *discordgo.MessageAttachment,
	kind attachmentKind,
	prompt string,
	raw bool,
) (string, error) {
	data, err := bot.download(ctx, attachment.URL)
	if err != nil {
		return "", err
	}

	objectName := etc.NewFreshID() + extensionFor(attachment.ContentType)
	uri, err := bot.store.Upload(ctx, objectName, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("stage media: %w", err)
	}
	defer func() {
		if err := bot.store.Delete(ctx, objectName); err != nil {
			bot.log.Warn("clean up staged media", "error", err)
		}
	}()

	if kind == attachmentImage && bot.scorer != nil {
		if _, err := bot.scorer.Score(ctx, uri); err != nil {
			// Advisory only; the turn continues.
			bot.log.Warn("safe search", "error", err)
		}
	}

	fileURI, fileName, err := bot.gen.Upload(
		ctx,
		bytes.NewReader(data),
		attachment.ContentType,
	)
	if err != nil {
		return "", fmt.Errorf("upload media to model: %w", err)
	}
	defer func() {
		if err := bot.gen.DeleteUpload(ctx, fileName); err != nil {
			bot.log.Warn("clean up model upload", "error", err)
		}
	}()

	return bot.gen.GenerateFile(
		ctx,
		fileURI,
		attachment.ContentType,
		bot.mediaInstructions(kind, prompt, raw),
	)
}

// mediaInstructions resolves the instruction text for an attachment turn: a
// raw prompt is annotated with the attachment kind, a catalog key selects
// its persona, any other fragment rides along with the freeform directive,
// and an empty prompt falls back to the kind's default.
func (bot *Bot) mediaInstructions(
	kind attachmentKind,
	prompt string,
	raw bool,
) string {
	if raw {
		return prompt + ".. " + kind.label() + " is attached."
	}
	if prompt != "" {
		if directive, ok := persona.Instructions[prompt]; ok {
			return directive
		}
		return persona.Instructions["freeform"] + " : " +
			capFragment(prompt, bot.cfg.FragmentCap)
	}
	return persona.Instructions[kind.instructionKey()]
}

func (bot *Bot) download(
	ctx context.Context,
	url string,
) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := bot.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"download attachment: unexpected status %s",
			resp.Status,
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read attachment body: %w", err)
	}
	return data, nil
}

// extensionFor derives a file extension from the MIME subtype, enough for
// temp object names.
func extensionFor(contentType string) string {
	if _, subtype, found := strings.Cut(contentType, "/"); found {
		if subtype != "" {
			return "." + subtype
		}
	}
	return ""
}
