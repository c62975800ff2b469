package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/StephanieNhiLe/savo-ai/internal/logging"
	"github.com/StephanieNhiLe/savo-ai/internal/models"
)

// SentimentService scores text and never fails on provider problems: any
// scoring failure degrades to the neutral result.
type SentimentService struct {
	scorer  SentimentScorer
	timeout time.Duration
}

// NewSentimentService accepts a nil scorer, in which case every analysis is neutral.
func NewSentimentService(scorer SentimentScorer, timeout time.Duration) *SentimentService {
	return &SentimentService{scorer: scorer, timeout: timeout}
}

func (s *SentimentService) Available() bool { return s.scorer != nil }

// Analyze returns a ValidationError for empty text and otherwise always succeeds.
func (s *SentimentService) Analyze(ctx context.Context, text string) (models.SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return models.SentimentResult{}, &ValidationError{Message: "No text provided"}
	}
	if s.scorer == nil {
		return models.NeutralSentiment(), nil
	}

	log := logging.GetLogger().WithField("text", logging.Truncate(text, logging.MaxLoggedInput))

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	score, err := s.scorer.ScoreSentiment(ctx, text)
	if err != nil {
		log.WithError(err).Warn("Sentiment scoring failed, returning neutral")
		return models.NeutralSentiment(), nil
	}
	if !validScore(score) {
		log.WithFields(logrus.Fields{
			"score":     score.Score,
			"magnitude": score.Magnitude,
		}).Warn("Sentiment provider returned malformed score, returning neutral")
		return models.NeutralSentiment(), nil
	}

	log.WithFields(logrus.Fields{
		"score":     score.Score,
		"magnitude": score.Magnitude,
	}).Debug("Sentiment scored")

	return models.SentimentResult{
		Sentiment: Categorize(score.Score),
		Score:     score.Score,
		Magnitude: score.Magnitude,
	}, nil
}

// Categorize maps a score to its bucket. Boundaries belong to the bucket
// closer to neutral: 0.5 is positive, 0.1 and -0.1 are neutral, -0.5 is negative.
func Categorize(score float64) string {
	switch {
	case score > 0.5:
		return models.SentimentVeryPositive
	case score > 0.1:
		return models.SentimentPositive
	case score < -0.5:
		return models.SentimentVeryNegative
	case score < -0.1:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func validScore(s Score) bool {
	if math.IsNaN(s.Score) || math.IsNaN(s.Magnitude) || math.IsInf(s.Magnitude, 0) {
		return false
	}
	return s.Score >= -1 && s.Score <= 1 && s.Magnitude >= 0
}
