package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"

	"github.com/StephanieNhiLe/savo-ai/internal/logging"
)

// GeminiService implements TextGenerator with the Gemini API.
type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

// NewGeminiService builds the Gemini client. An empty apiKey yields a service
// that fails every call with ErrNotConfigured instead of failing startup.
func NewGeminiService(ctx context.Context, apiKey, modelName string, concurrentReqs int) (*GeminiService, error) {
	if concurrentReqs <= 0 {
		concurrentReqs = 1
	}

	// Token bucket for concurrency limiting
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	if apiKey == "" {
		return &GeminiService{rateChan: rateChan}, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:   client,
		model:    client.GenerativeModel(modelName),
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Configured() bool { return s.model != nil }

func (s *GeminiService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// GenerateText sends prompt to the model and returns the first candidate's text.
func (s *GeminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	if !s.Configured() {
		return "", &UpstreamError{Provider: providerGemini, Err: ErrNotConfigured}
	}

	if err := s.acquireRate(ctx); err != nil {
		return "", &UpstreamError{Provider: providerGemini, Err: err}
	}
	defer s.releaseRate()

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", geminiError(err)
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			logging.GetLogger().WithFields(logrus.Fields{
				"candidate":     i,
				"finish_reason": cand.FinishReason.String(),
			}).Warn("Gemini candidate did not finish normally")
		}
	}

	text := firstCandidateText(resp)
	if text == "" {
		return "", &UpstreamError{Provider: providerGemini, Body: "no candidates returned"}
	}
	return text, nil
}

// firstCandidateText joins the text parts of the first candidate with content.
func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var text strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
		return strings.TrimSpace(text.String())
	}
	return ""
}

func geminiError(err error) error {
	ue := &UpstreamError{Provider: providerGemini, Err: err}

	ae, ok := apierror.FromError(err)
	if !ok {
		return ue
	}

	ue.Body = ae.Error()
	if code := ae.HTTPCode(); code > 0 {
		ue.StatusCode = code
	} else if st := ae.GRPCStatus(); st != nil {
		switch st.Code() {
		case codes.ResourceExhausted:
			ue.StatusCode = http.StatusTooManyRequests
		case codes.Unavailable:
			ue.StatusCode = http.StatusServiceUnavailable
		case codes.DeadlineExceeded:
			ue.StatusCode = http.StatusGatewayTimeout
		}
	}
	ue.Quota = ue.StatusCode == http.StatusTooManyRequests
	return ue
}
