package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

type stubGenerator struct {
	replies []string
	errs    []error
	prompts []string
}

func (s *stubGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	var reply string
	var err error
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return reply, err
}

func newTestChatService(t *testing.T, gen TextGenerator, retries int) *ChatService {
	t.Helper()
	prompt, err := LoadPromptTemplate("")
	if err != nil {
		t.Fatalf("load prompt: %v", err)
	}
	return NewChatService(gen, prompt, time.Second, retries)
}

func TestChatService_Reply(t *testing.T) {
	gen := &stubGenerator{replies: []string{"I hear you."}}
	svc := newTestChatService(t, gen, 1)

	got, err := svc.Reply(context.Background(), "I had a hard day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "I hear you." {
		t.Fatalf("unexpected reply %q", got)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected one provider call, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], `User's message: "I had a hard day"`) {
		t.Fatalf("prompt does not embed the message: %q", gen.prompts[0])
	}
	if !strings.HasPrefix(gen.prompts[0], "You are Savo AI") {
		t.Fatalf("prompt does not start with the persona")
	}
}

func TestChatService_EmptyMessage(t *testing.T) {
	gen := &stubGenerator{}
	svc := newTestChatService(t, gen, 1)

	_, err := svc.Reply(context.Background(), "  ")
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("provider must not be called, got %d calls", len(gen.prompts))
	}
}

func TestChatService_ProviderErrorIsUpstreamError(t *testing.T) {
	gen := &stubGenerator{errs: []error{&UpstreamError{Provider: providerGemini, Body: "no candidates returned"}}}
	svc := newTestChatService(t, gen, 1)

	_, err := svc.Reply(context.Background(), "hello")
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("non-transient errors must not be retried, got %d calls", len(gen.prompts))
	}
}

func TestChatService_RetriesTransientFailureOnce(t *testing.T) {
	gen := &stubGenerator{
		replies: []string{"", "second time lucky"},
		errs:    []error{&UpstreamError{Provider: providerGemini, StatusCode: http.StatusServiceUnavailable}, nil},
	}
	svc := newTestChatService(t, gen, 1)

	got, err := svc.Reply(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "second time lucky" || len(gen.prompts) != 2 {
		t.Fatalf("expected success on retry, got %q after %d calls", got, len(gen.prompts))
	}
}

func TestChatService_GivesUpAfterRetry(t *testing.T) {
	transient := &UpstreamError{Provider: providerGemini, Err: errors.New("connection reset")}
	gen := &stubGenerator{errs: []error{transient, transient, transient}}
	svc := newTestChatService(t, gen, 1)

	if _, err := svc.Reply(context.Background(), "hello"); err == nil {
		t.Fatal("expected error")
	}
	if len(gen.prompts) != 2 {
		t.Fatalf("expected exactly two attempts, got %d", len(gen.prompts))
	}
}
