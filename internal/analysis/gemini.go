package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/44frames/stage-vision/internal/prompts"
	"github.com/44frames/stage-vision/internal/types"
)

// GeminiAnalyzer implements Analyzer using the Gemini vision API.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

// NewGeminiAnalyzer creates a Gemini-backed analyzer.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string, logger zerolog.Logger) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiAnalyzer{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Close releases resources held by the client.
func (a *GeminiAnalyzer) Close() error {
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// Analyze sends the photo with the analysis prompt and decodes the
// JSON verdict. The response is validated against the result schema
// before decoding; any failure is returned as *Error and the caller
// fails the unit without retrying.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string, occupied bool, style types.Style) (*Result, error) {
	model := a.client.GenerativeModel(a.model)
	model.SetTemperature(0.2) // Low temperature for consistent classification
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx,
		genai.Text(prompts.Analysis(occupied, style)),
		genai.ImageData(imageFormat(mimeType), image),
		genai.Text(prompts.AnalysisFollowup()),
	)
	if err != nil {
		return nil, &Error{Cause: fmt.Sprintf("generate content: %v", err)}
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &Error{Cause: err.Error()}
	}
	text = cleanJSONBlock(text)

	if err := validateResultJSON(text); err != nil {
		a.logger.Warn().Err(err).Msg("analysis response failed schema validation")
		return nil, &Error{Cause: fmt.Sprintf("invalid response: %v", err)}
	}

	var result Result
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &Error{Cause: fmt.Sprintf("decode response: %v", err)}
	}
	return &result, nil
}

// imageFormat maps a MIME type to the genai image format subtype.
func imageFormat(mimeType string) string {
	if sub, ok := strings.CutPrefix(mimeType, "image/"); ok {
		return sub
	}
	return "jpeg"
}

// extractTextFromResponse extracts text from a Gemini API response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

// cleanJSONBlock removes markdown code block wrappers from JSON
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
