package gemini

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator is the narrow contract the bot needs from the language model:
// plain text generation, generation over an uploaded file, and the file
// upload/delete pair that feeds it.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateFile(
		ctx context.Context,
		uri, mimeType, instructions string,
	) (string, error)
	Upload(
		ctx context.Context,
		r io.Reader,
		mimeType string,
	) (uri, name string, err error)
	DeleteUpload(ctx context.Context, name string) error
}

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *log.Logger
}

func New(
	ctx context.Context,
	apiKey string,
	logger *log.Logger,
) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client: client,
		model:  setupGenerativeModel(client),
		log:    logger,
	}, nil
}

func setupGenerativeModel(client *genai.Client) *genai.GenerativeModel {
	model := client.GenerativeModel("gemini-1.5-flash-002")
	model.SafetySettings = []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockOnlyHigh,
		},
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockOnlyHigh,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockOnlyHigh,
		},
	}
	return model
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) GenerateText(
	ctx context.Context,
	prompt string,
) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return responseText(resp), nil
}

// GenerateFile runs generation over a previously uploaded file plus the
// given instruction text, mirroring the attachment flows.
func (c *Client) GenerateFile(
	ctx context.Context,
	uri, mimeType, instructions string,
) (string, error) {
	resp, err := c.model.GenerateContent(
		ctx,
		genai.FileData{URI: uri, MIMEType: mimeType},
		genai.Text(instructions),
	)
	if err != nil {
		return "", fmt.Errorf("generate content from file: %w", err)
	}
	return responseText(resp), nil
}

// Upload stages bytes with the file API so GenerateFile can reference them.
func (c *Client) Upload(
	ctx context.Context,
	r io.Reader,
	mimeType string,
) (string, string, error) {
	file, err := c.client.UploadFile(ctx, "", r, &genai.UploadFileOptions{
		MIMEType: mimeType,
	})
	if err != nil {
		return "", "", fmt.Errorf("upload file: %w", err)
	}
	c.log.Debug("uploaded file", "name", file.Name, "uri", file.URI)
	return file.URI, file.Name, nil
}

func (c *Client) DeleteUpload(ctx context.Context, name string) error {
	if err := c.client.DeleteFile(ctx, name); err != nil {
		return fmt.Errorf("delete uploaded file: %w", err)
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var text string
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text += string(t)
			}
		}
	}
	return text
}
