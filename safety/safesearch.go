package safety

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	vision "google.golang.org/api/vision/v1"
)

// Scores holds safe-search likelihoods as the Vision API reports them, from
// VERY_UNLIKELY through VERY_LIKELY. They are advisory: the bot logs them
// and moves on, it does not block content on them.
type Scores struct {
	Adult    string
	Medical  string
	Spoof    string
	Violence string
	Racy     string
}

// Scorer classifies a stored image by URI.
type Scorer interface {
	Score(ctx context.Context, uri string) (Scores, error)
}

type VisionScorer struct {
	svc *vision.Service
	log *log.Logger
}

func NewVisionScorer(
	ctx context.Context,
	logger *log.Logger,
) (*VisionScorer, error) {
	svc, err := vision.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}
	return &VisionScorer{svc: svc, log: logger}, nil
}

func (s *VisionScorer) Score(
	ctx context.Context,
	uri string,
) (Scores, error) {
	resp, err := s.svc.Images.Annotate(&vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image: &vision.Image{
					Source: &vision.ImageSource{ImageUri: uri},
				},
				Features: []*vision.Feature{
					{Type: "SAFE_SEARCH_DETECTION"},
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return Scores{}, fmt.Errorf("safe search detection: %w", err)
	}

	if len(resp.Responses) == 0 || resp.Responses[0].SafeSearchAnnotation == nil {
		return Scores{}, errors.New("no safe search annotation returned")
	}
	if resp.Responses[0].Error != nil {
		return Scores{}, fmt.Errorf(
			"safe search detection: %s",
			resp.Responses[0].Error.Message,
		)
	}

	annotation := resp.Responses[0].SafeSearchAnnotation
	scores := Scores{
		Adult:    annotation.Adult,
		Medical:  annotation.Medical,
		Spoof:    annotation.Spoof,
		Violence: annotation.Violence,
		Racy:     annotation.Racy,
	}

	s.log.Info(
		"safe search",
		"adult", scores.Adult,
		"medical", scores.Medical,
		"spoof", scores.Spoof,
		"violence", scores.Violence,
		"racy", scores.Racy,
	)

	return scores, nil
}
