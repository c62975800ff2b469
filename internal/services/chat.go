package services

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ChatService turns a user message into a persona reply.
type ChatService struct {
	generator TextGenerator
	prompt    *PromptTemplate
	timeout   time.Duration
	retries   int
}

func NewChatService(generator TextGenerator, prompt *PromptTemplate, timeout time.Duration, retries int) *ChatService {
	return &ChatService{
		generator: generator,
		prompt:    prompt,
		timeout:   timeout,
		retries:   retries,
	}
}

// Reply renders the persona prompt for message and returns the generated text.
// Each attempt is bounded by the service timeout.
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", &ValidationError{Message: "No message provided"}
	}

	prompt, err := s.prompt.Render(message)
	if err != nil {
		return "", err
	}

	text, err := withRetry(ctx, s.retries, func(ctx context.Context) (string, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		return s.generator.GenerateText(attemptCtx, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	return text, nil
}
