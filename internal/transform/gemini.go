package transform

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public Gemini REST endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiCaller invokes the Gemini image model over REST. The image
// endpoint's aspect-ratio and size controls live in
// generationConfig.imageConfig, which only the raw API exposes.
type GeminiCaller struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	logger     zerolog.Logger
}

// NewGeminiCaller creates a REST caller for the given model.
func NewGeminiCaller(apiKey, baseURL, model string, timeout time.Duration, logger zerolog.Logger) *GeminiCaller {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GeminiCaller{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		logger:     logger,
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiImageConfig struct {
	AspectRatio string `json:"aspectRatio"`
	ImageSize   string `json:"imageSize,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string          `json:"responseModalities"`
	ImageConfig        geminiImageConfig `json:"imageConfig"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		FinishReason string `json:"finishReason"`
		Content      struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MIMEType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generate performs one generateContent call and returns the first
// image payload in the response. A response with no image part
// returns ErrNoImage so the retry loop treats it like any other
// transient failure.
func (g *GeminiCaller) Generate(ctx context.Context, req Request) ([]byte, error) {
	body := geminiRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{Text: req.Instruction},
				{InlineData: &geminiInlineData{
					MIMEType: req.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(req.Image),
				}},
			},
		}},
		GenerationConfig: geminiGenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
			ImageConfig: geminiImageConfig{
				AspectRatio: req.AspectRatio,
				ImageSize:   req.Size,
			},
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transform request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transform request returned %d: %s", resp.StatusCode, truncate(string(raw), 300))
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(decoded.Candidates) == 0 {
		if fb := decoded.PromptFeedback; fb != nil && fb.BlockReason != "" {
			g.logger.Warn().Str("block_reason", fb.BlockReason).Msg("prompt blocked by provider")
		}
		return nil, ErrNoImage
	}

	candidate := decoded.Candidates[0]
	if candidate.FinishReason != "" && candidate.FinishReason != "STOP" && candidate.FinishReason != "MAX_TOKENS" {
		g.logger.Warn().Str("finish_reason", candidate.FinishReason).Msg("unexpected finish reason")
	}

	var textParts []string
	for _, part := range candidate.Content.Parts {
		if part.InlineData != nil && part.InlineData.Data != "" {
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image data: %w", err)
			}
			return data, nil
		}
		if part.Text != "" {
			textParts = append(textParts, part.Text)
		}
	}

	// Text may explain why no image came back; surface it in the log.
	if len(textParts) > 0 {
		g.logger.Warn().Str("model_text", truncate(strings.Join(textParts, " "), 300)).Msg("transform returned text instead of image")
	}
	return nil, ErrNoImage
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
