package llm

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// Gemini calls the Google generative language API with a JSON
// response MIME type. A client is created per call and closed after.
type Gemini struct {
	apiKey string
	model  string
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{apiKey: apiKey, model: model}
}

func (g *Gemini) Complete(ctx context.Context, instructions, input string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", errors.Wrap(err, "failed to create gemini client")
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(instructions)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(input))
	if err != nil {
		return "", errors.Wrap(err, "failed to generate content")
	}

	if len(resp.Candidates) == 0 {
		return "", errors.Wrap(ErrGenerationFormat, "no candidates returned")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.Wrap(ErrGenerationFormat, "empty content returned")
	}

	if txt, ok := candidate.Content.Parts[0].(genai.Text); ok {
		return string(txt), nil
	}

	return "", errors.Wrap(ErrGenerationFormat, "unexpected response part type")
}
