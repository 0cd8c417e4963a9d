package llm

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/niktanya/telegram-book-bot/config"
)

type slowProvider struct {
	delay time.Duration
}

func (p *slowProvider) Complete(ctx context.Context, instructions, input string) (string, error) {
	select {
	case <-time.After(p.delay):
		return "ok", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestWithTimeoutExpiry(t *testing.T) {
	p := WithTimeout(&slowProvider{delay: time.Second}, 10*time.Millisecond)

	_, err := p.Complete(context.Background(), "", "")
	if !errors.Is(err, ErrGenerationTimeout) {
		t.Fatalf("expected ErrGenerationTimeout, got %v", err)
	}
}

func TestWithTimeoutPassesThrough(t *testing.T) {
	p := WithTimeout(&slowProvider{delay: time.Millisecond}, time.Second)

	out, err := p.Complete(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestNewFromConfig(t *testing.T) {
	opts := config.GetDefaultOptions()

	if _, err := NewFromConfig(opts); err == nil {
		t.Fatal("openai without an api key must fail")
	}

	opts.OpenAIKey = "sk-test"
	if _, err := NewFromConfig(opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts.LLMProvider = "gemini"
	if _, err := NewFromConfig(opts); err == nil {
		t.Fatal("gemini without an api key must fail")
	}
	opts.GeminiKey = "test"
	if _, err := NewFromConfig(opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	opts.LLMProvider = "чат"
	if _, err := NewFromConfig(opts); err == nil {
		t.Fatal("unknown provider must fail")
	}
}
