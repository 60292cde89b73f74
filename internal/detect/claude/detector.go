// Package claude implements entity detection with the Anthropic Messages
// API, sending each page image together with its OCR context.
package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"privasee/internal/config"
	"privasee/internal/detect"
	"privasee/internal/domain"
	"privasee/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
)

// Detector implements port.EntityDetector using Claude Vision.
type Detector struct {
	apiKey    string
	model     string
	maxTokens int
	endpoint  string
	client    *http.Client
}

// NewDetector creates a Claude-based entity detector from config.
func NewDetector(cfg *config.DetectConfig) *Detector {
	return newDetector(cfg, apiURL)
}

// NewDetectorWithEndpoint creates a detector pointing at a custom API endpoint (for testing).
func NewDetectorWithEndpoint(cfg *config.DetectConfig, endpoint string) *Detector {
	return newDetector(cfg, endpoint)
}

func newDetector(cfg *config.DetectConfig, endpoint string) *Detector {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Detector{
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		endpoint:  endpoint,
		client:    &http.Client{Timeout: timeout},
	}
}

// Detect sends the page image and OCR context to Claude and returns the
// validated entity candidates. Malformed candidates are dropped
// individually; an unparseable response yields an empty list, not an error.
func (d *Detector) Detect(ctx context.Context, input port.DetectInput) ([]domain.EntityCandidate, error) {
	prompt := detect.BuildExtractionPrompt(input.Fields, input.OCR)

	mediaType := input.MediaType
	if mediaType == "" {
		mediaType = "image/png"
	}

	reqBody := map[string]interface{}{
		"model":      d.model,
		"max_tokens": d.maxTokens,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "image",
						"source": map[string]interface{}{
							"type":       "base64",
							"media_type": mediaType,
							"data":       base64.StdEncoding.EncodeToString(input.ImageBytes),
						},
					},
					{
						"type": "text",
						"text": prompt,
					},
				},
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", d.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := detect.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, detect.NewRateLimitError("claude", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody, input.PageNumber)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// rawCandidate is the loose shape the model returns; bounding_box arity is
// validated before conversion.
type rawCandidate struct {
	EntityType   *string   `json:"entity_type"`
	OriginalText *string   `json:"original_text"`
	BoundingBox  []float64 `json:"bounding_box"`
	Confidence   *float64  `json:"confidence"`
}

func parseResponse(body []byte, pageNumber int) ([]domain.EntityCandidate, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("empty response from API")
	}
	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("output truncated (stop_reason: max_tokens)")
	}

	jsonText := stripCodeFence(resp.Content[0].Text)

	var raw []rawCandidate
	if err := json.Unmarshal([]byte(jsonText), &raw); err != nil {
		log.Printf("claude.Detect: response was not a valid JSON array, returning no candidates: %v", err)
		return nil, nil
	}

	candidates := make([]domain.EntityCandidate, 0, len(raw))
	for i := range raw {
		c, ok := validate(&raw[i])
		if !ok {
			log.Printf("claude.Detect: dropping malformed candidate %d", i)
			continue
		}
		c.PageNumber = pageNumber
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func validate(raw *rawCandidate) (domain.EntityCandidate, bool) {
	if raw.EntityType == nil || raw.OriginalText == nil || len(raw.BoundingBox) != 4 {
		return domain.EntityCandidate{}, false
	}
	confidence := 0.9
	if raw.Confidence != nil {
		confidence = *raw.Confidence
	}
	return domain.EntityCandidate{
		Category:     *raw.EntityType,
		OriginalText: *raw.OriginalText,
		BoundingBox:  domain.BoundingBox{raw.BoundingBox[0], raw.BoundingBox[1], raw.BoundingBox[2], raw.BoundingBox[3]},
		Confidence:   confidence,
	}, true
}

// stripCodeFence unwraps a ```json ... ``` (or bare ```) fenced block.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	for _, fence := range []string{"```json", "```"} {
		if start := strings.Index(trimmed, fence); start >= 0 {
			rest := trimmed[start+len(fence):]
			if end := strings.Index(rest, "```"); end >= 0 {
				return strings.TrimSpace(rest[:end])
			}
		}
	}
	return trimmed
}

var _ port.EntityDetector = (*Detector)(nil)
