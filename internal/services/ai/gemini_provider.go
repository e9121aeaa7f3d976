package ai

import (
	"context"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider answers through Google's generative language API. It is
// the default reasoning backend.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, config *Config) (*GeminiProvider, error) {
	if config.GeminiAPIKey == "" {
		return nil, NewConfigError("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: config.GeminiAPIKey,
	})
	if err != nil {
		return nil, NewProviderError("client", "failed to create Gemini client", err)
	}

	model := config.GeminiModel
	if model == "" {
		model = DefaultConfig().GeminiModel
	}

	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Answer(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return "", NewProviderError("answer", "failed to generate content", err)
	}

	return firstCandidateText(resp, "answer")
}

func (p *GeminiProvider) DescribeImage(ctx context.Context, data []byte, mimeType, instruction string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(instruction),
		genai.NewPartFromBytes(data, mimeType),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, nil)
	if err != nil {
		return "", NewProviderError("describe_image", "failed to analyze image", err)
	}

	return firstCandidateText(resp, "describe_image")
}

// firstCandidateText extracts the text parts of the first candidate. A
// response with no candidates or no text is an empty-response failure, not
// a valid answer.
func firstCandidateText(resp *genai.GenerateContentResponse, operation string) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", NewEmptyResponseError(operation)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", NewEmptyResponseError(operation)
	}
	return text, nil
}
