package llm

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/niktanya/telegram-book-bot/config"
)

var (
	// ErrGenerationFormat marks a malformed or unparseable payload from
	// the text-completion service. Not retried, surfaced to the user as
	// "try again later".
	ErrGenerationFormat = errors.New("llm: malformed response")
	// ErrGenerationTimeout marks an expired completion call. Surfaced
	// the same way as a format error.
	ErrGenerationTimeout = errors.New("llm: generation timed out")
)

// Provider is a text-completion backend. Complete sends a fixed
// instruction block plus the user text and returns the raw response
// body, which callers decode and validate themselves.
type Provider interface {
	Complete(ctx context.Context, instructions, input string) (string, error)
}

// NewFromConfig builds the provider selected by llm_provider.
func NewFromConfig(opts *config.Options) (Provider, error) {
	var p Provider
	switch opts.LLMProvider {
	case "openai":
		if opts.OpenAIKey == "" {
			return nil, errors.New("openai_api_key is required")
		}
		p = NewOpenAI(opts.OpenAIKey, opts.OpenAIModel)
	case "gemini":
		if opts.GeminiKey == "" {
			return nil, errors.New("gemini_api_key is required")
		}
		p = NewGemini(opts.GeminiKey, opts.GeminiModel)
	default:
		return nil, errors.Errorf("unknown llm provider %q", opts.LLMProvider)
	}

	if opts.LLMTimeout > 0 {
		p = WithTimeout(p, time.Duration(opts.LLMTimeout)*time.Second)
	}
	return p, nil
}

type timeoutProvider struct {
	next    Provider
	timeout time.Duration
}

// WithTimeout bounds every completion call. Expiry is reported as
// ErrGenerationTimeout.
func WithTimeout(next Provider, timeout time.Duration) Provider {
	return &timeoutProvider{next: next, timeout: timeout}
}

func (t *timeoutProvider) Complete(ctx context.Context, instructions, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.next.Complete(ctx, instructions, input)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return "", ErrGenerationTimeout
	}
	return out, err
}
