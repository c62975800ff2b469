package services

import (
	"context"
	"fmt"
	"os"
	"strconv"

	language "cloud.google.com/go/language/apiv1"
	"cloud.google.com/go/language/apiv1/languagepb"
	"google.golang.org/api/option"
)

// LanguageScorer implements SentimentScorer with Google Cloud Natural Language.
type LanguageScorer struct {
	client *language.Client
}

// NewLanguageScorer creates the client from a service-account credentials file.
func NewLanguageScorer(ctx context.Context, credentialsFile string) (*LanguageScorer, error) {
	credentials, err := serviceAccountOption(credentialsFile)
	if err != nil {
		return nil, err
	}

	client, err := language.NewClient(ctx, credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to create Language client: %w", err)
	}
	return &LanguageScorer{client: client}, nil
}

// serviceAccountOption only accepts an existing service-account key file.
func serviceAccountOption(credentialsFile string) (option.ClientOption, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS is not set: %w", ErrNotConfigured)
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("credentials file %s: %w", credentialsFile, err)
	}
	return option.WithAuthCredentialsFile(option.ServiceAccount, credentialsFile), nil
}

func (l *LanguageScorer) ScoreSentiment(ctx context.Context, text string) (Score, error) {
	resp, err := l.client.AnalyzeSentiment(ctx, &languagepb.AnalyzeSentimentRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{Content: text},
			Type:   languagepb.Document_PLAIN_TEXT,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	})
	if err != nil {
		return Score{}, &UpstreamError{Provider: providerLanguage, Err: err}
	}

	sentiment := resp.GetDocumentSentiment()
	if sentiment == nil {
		return Score{}, &UpstreamError{Provider: providerLanguage, Body: "response has no document sentiment"}
	}
	return Score{
		Score:     widen(sentiment.GetScore()),
		Magnitude: widen(sentiment.GetMagnitude()),
	}, nil
}

func (l *LanguageScorer) Close() error {
	return l.client.Close()
}

// widen converts a float32 to the float64 with the same shortest decimal form,
// so 0.1f stays 0.1 rather than 0.10000000149.
func widen(f float32) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return v
}
