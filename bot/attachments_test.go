package bot

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"coolai/persona"
)

func TestClassifyAttachment(t *testing.T) {
	cases := []struct {
		contentType string
		want        attachmentKind
	}{
		{"image/png", attachmentImage},
		{"image/jpeg", attachmentImage},
		{"video/mp4", attachmentVideo},
		{"application/pdf", attachmentDocument},
		{"text/plain; charset=utf-8", attachmentDocument},
		{"audio/ogg", attachmentNone},
		{"", attachmentNone},
	}

	for _, tc := range cases {
		t.Run(tc.contentType, func(t *testing.T) {
			got := classifyAttachment(&discordgo.MessageAttachment{
				ContentType: tc.contentType,
			})
			if got != tc.want {
				t.Errorf("classifyAttachment(%q) = %v, want %v", tc.contentType, got, tc.want)
			}
		})
	}
}

func TestAttachmentOfKind(t *testing.T) {
	m := &discordgo.Message{
		Attachments: []*discordgo.MessageAttachment{
			{ContentType: "image/png", URL: "https://cdn.test/pic.png"},
			{ContentType: "video/mp4", URL: "https://cdn.test/clip.mp4"},
		},
	}

	video, ok := attachmentOfKind(m, attachmentVideo)
	if !ok || video.URL != "https://cdn.test/clip.mp4" {
		t.Error("image attachment should not shadow a requested video")
	}

	if _, ok := attachmentOfKind(m, attachmentDocument); ok {
		t.Error("no document attached")
	}
}

func TestImageLinkCommand(t *testing.T) {
	t.Run("Reports The Link", func(t *testing.T) {
		conn := newFakeDiscord()
		bot := newTestBot(t, conn, &fakeGenerator{}, &fakeImages{}, Config{})

		m := message("m1", "c1", "g1", "u1", "bob", "!imagelink")
		m.Attachments = []*discordgo.MessageAttachment{
			{ContentType: "image/png", URL: "https://cdn.test/pic.png"},
		}
		bot.handleMessageCreate(nil, m)

		want := "Image link found: https://cdn.test/pic.png"
		if len(conn.sent) != 1 || conn.sent[0] != want {
			t.Errorf("expected %q, got %v", want, conn.sent)
		}
	})

	t.Run("No Image Attached", func(t *testing.T) {
		conn := newFakeDiscord()
		bot := newTestBot(t, conn, &fakeGenerator{}, &fakeImages{}, Config{})

		m := message("m1", "c1", "g1", "u1", "bob", "!imagelink")
		m.Attachments = []*discordgo.MessageAttachment{
			{ContentType: "video/mp4", URL: "https://cdn.test/clip.mp4"},
		}
		bot.handleMessageCreate(nil, m)

		if len(conn.sent) != 1 || conn.sent[0] != "No image links found in attachments." {
			t.Errorf("expected not-found message, got %v", conn.sent)
		}
	})
}

func TestRespondWithoutAttachments(t *testing.T) {
	t.Run("Empty Prompt Falls Back To Greeting", func(t *testing.T) {
		conn := newFakeDiscord()
		gen := &fakeGenerator{reply: "hello!"}
		bot := newTestBot(t, conn, gen, &fakeImages{}, Config{})

		bot.handleMessageCreate(nil, message("m1", "c1", "g1", "u1", "bob", "!ai"))

		if len(gen.prompts) != 1 {
			t.Fatalf("expected one generation, got %d", len(gen.prompts))
		}
		if !strings.Contains(gen.prompts[0], persona.Instructions["greeting"]) {
			t.Errorf("expected greeting instruction, got %q", gen.prompts[0])
		}
		if !strings.HasPrefix(gen.prompts[0], persona.Instructions["freeform"]) {
			t.Errorf("expected freeform wrapper, got %q", gen.prompts[0])
		}
	})

	t.Run("User Fragment Is Capped", func(t *testing.T) {
		conn := newFakeDiscord()
		gen := &fakeGenerator{reply: "hello!"}
		bot := newTestBot(t, conn, gen, &fakeImages{}, Config{FragmentCap: 10})

		bot.handleMessageCreate(
			nil,
			message("m1", "c1", "g1", "u1", "bob", "!ai this fragment runs well past the cap"),
		)

		if len(gen.prompts) != 1 {
			t.Fatalf("expected one generation, got %d", len(gen.prompts))
		}
		if !strings.HasSuffix(gen.prompts[0], "this fragm") {
			t.Errorf("fragment should be cut to ten characters, got %q", gen.prompts[0])
		}
	})
}
