package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"google.golang.org/api/aiplatform/v1"
	"google.golang.org/api/option"
)

// ErrNoImages means the model returned zero images on every attempt.
var ErrNoImages = errors.New("no images generated")

const (
	imagenModel    = "imagen-3.0-generate-001"
	imagenLocation = "us-central1"
	imagenAttempts = 3
)

// ImageGenerator is the contract for prompt-to-image generation. Generate
// returns the bytes of a single PNG image.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

type ImagenGenerator struct {
	svc       *aiplatform.Service
	projectID string
	log       *log.Logger
}

func NewImagenGenerator(
	ctx context.Context,
	projectID string,
	logger *log.Logger,
) (*ImagenGenerator, error) {
	svc, err := aiplatform.NewService(
		ctx,
		option.WithEndpoint(
			fmt.Sprintf("https://%s-aiplatform.googleapis.com/", imagenLocation),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create aiplatform service: %w", err)
	}

	return &ImagenGenerator{
		svc:       svc,
		projectID: projectID,
		log:       logger,
	}, nil
}

// Generate asks Imagen for images and returns the first one. Empty results
// are retried up to imagenAttempts times before giving up with ErrNoImages.
func (g *ImagenGenerator) Generate(
	ctx context.Context,
	prompt string,
) ([]byte, error) {
	model := fmt.Sprintf(
		"projects/%s/locations/%s/publishers/google/models/%s",
		g.projectID,
		imagenLocation,
		imagenModel,
	)

	req := &aiplatform.GoogleCloudAiplatformV1PredictRequest{
		Instances: []interface{}{
			map[string]interface{}{"prompt": prompt},
		},
		Parameters: map[string]interface{}{
			"sampleCount":       3,
			"aspectRatio":       "1:1",
			"language":          "en",
			"safetyFilterLevel": "block_some",
		},
	}

	for attempt := 1; attempt <= imagenAttempts; attempt++ {
		resp, err := g.svc.Projects.Locations.Publishers.Models.
			Predict(model, req).
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("imagen predict: %w", err)
		}

		g.log.Info(
			"imagen attempt",
			"attempt", attempt,
			"predictions", len(resp.Predictions),
		)

		if len(resp.Predictions) == 0 {
			continue
		}

		data, err := decodePrediction(resp.Predictions[0])
		if err != nil {
			return nil, err
		}
		return data, nil
	}

	return nil, ErrNoImages
}

func decodePrediction(prediction interface{}) ([]byte, error) {
	fields, ok := prediction.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected prediction shape: %T", prediction)
	}
	encoded, ok := fields["bytesBase64Encoded"].(string)
	if !ok {
		return nil, errors.New("prediction missing image bytes")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode image bytes: %w", err)
	}
	return data, nil
}
