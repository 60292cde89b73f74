// Package azure implements text extraction against the Azure Document
// Intelligence prebuilt-read model over its REST API.
package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"privasee/internal/config"
	"privasee/internal/domain"
	"privasee/internal/port"
)

const analyzePath = "/formrecognizer/documentModels/prebuilt-read:analyze"

// Client calls Azure Document Intelligence and converts its polygons into
// normalized bounding boxes.
type Client struct {
	endpoint   string
	apiKey     string
	apiVersion string
	pollEvery  time.Duration
	client     *http.Client
}

// NewClient creates an Azure OCR client from config.
func NewClient(cfg *config.OCRConfig) (*Client, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("azure ocr endpoint and api key must be provided")
	}
	return newClient(cfg, cfg.Endpoint), nil
}

// NewClientWithEndpoint creates a client pointing at a custom base URL (for testing).
func NewClientWithEndpoint(cfg *config.OCRConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.OCRConfig, endpoint string) *Client {
	pollEvery := time.Duration(cfg.PollMillis) * time.Millisecond
	if pollEvery == 0 {
		pollEvery = 500 * time.Millisecond
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = "2023-07-31"
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     cfg.APIKey,
		apiVersion: apiVersion,
		pollEvery:  pollEvery,
		client:     &http.Client{Timeout: timeout},
	}
}

// Analyze runs prebuilt-read over one page image and returns text plus
// word/line boxes normalized to 0-1 of page dimensions.
func (c *Client) Analyze(ctx context.Context, imageBytes []byte) (*port.OCRResult, error) {
	opLocation, err := c.submit(ctx, imageBytes)
	if err != nil {
		return nil, err
	}
	result, err := c.poll(ctx, opLocation)
	if err != nil {
		return nil, err
	}
	return convert(result), nil
}

// ExtractText returns only the recognized plain text of one page image.
func (c *Client) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	result, err := c.Analyze(ctx, imageBytes)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

func (c *Client) submit(ctx context.Context, imageBytes []byte) (string, error) {
	url := fmt.Sprintf("%s%s?api-version=%s", c.endpoint, analyzePath, c.apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(imageBytes))
	if err != nil {
		return "", fmt.Errorf("creating analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling document intelligence: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("document intelligence error (status %d): %s", resp.StatusCode, string(body))
	}

	opLocation := resp.Header.Get("Operation-Location")
	if opLocation == "" {
		return "", fmt.Errorf("document intelligence returned no Operation-Location header")
	}
	return opLocation, nil
}

func (c *Client) poll(ctx context.Context, opLocation string) (*analyzeResult, error) {
	ticker := time.NewTicker(c.pollEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opLocation, nil)
		if err != nil {
			return nil, fmt.Errorf("creating poll request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("polling analyze operation: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading poll response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("analyze poll error (status %d): %s", resp.StatusCode, string(body))
		}

		var op operationResponse
		if err := json.Unmarshal(body, &op); err != nil {
			return nil, fmt.Errorf("unmarshaling poll response: %w", err)
		}

		switch op.Status {
		case "succeeded":
			return &op.AnalyzeResult, nil
		case "failed":
			return nil, fmt.Errorf("analyze operation failed: %s", op.Error.Message)
		}
		// notStarted / running: keep polling
	}
}

// operationResponse models the async operation envelope.
type operationResponse struct {
	Status        string        `json:"status"`
	AnalyzeResult analyzeResult `json:"analyzeResult"`
	Error         struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type analyzeResult struct {
	Content string `json:"content"`
	Pages   []struct {
		PageNumber int     `json:"pageNumber"`
		Angle      float64 `json:"angle"`
		Width      float64 `json:"width"`
		Height     float64 `json:"height"`
		Unit       string  `json:"unit"`
		Words      []struct {
			Content    string    `json:"content"`
			Polygon    []float64 `json:"polygon"`
			Confidence float64   `json:"confidence"`
		} `json:"words"`
		Lines []struct {
			Content string    `json:"content"`
			Polygon []float64 `json:"polygon"`
		} `json:"lines"`
	} `json:"pages"`
}

func convert(r *analyzeResult) *port.OCRResult {
	out := &port.OCRResult{}
	var text strings.Builder

	for _, p := range r.Pages {
		out.Pages = append(out.Pages, port.OCRPage{
			PageNumber: p.PageNumber,
			Width:      p.Width,
			Height:     p.Height,
			Unit:       p.Unit,
			Angle:      p.Angle,
		})
		for _, w := range p.Words {
			out.Words = append(out.Words, port.OCRWord{
				Text:        w.Content,
				BoundingBox: polygonToBBox(w.Polygon, p.Width, p.Height),
				Confidence:  w.Confidence,
				PageNumber:  p.PageNumber,
			})
		}
		for _, l := range p.Lines {
			out.Lines = append(out.Lines, port.OCRLine{
				Text:        l.Content,
				BoundingBox: polygonToBBox(l.Polygon, p.Width, p.Height),
				PageNumber:  p.PageNumber,
			})
			text.WriteString(l.Content)
			text.WriteString("\n")
		}
	}

	out.Text = strings.TrimSpace(text.String())
	if out.Text == "" {
		out.Text = strings.TrimSpace(r.Content)
	}
	return out
}

// polygonToBBox converts a flat polygon (x1,y1,x2,y2,...) to a normalized
// [x, y, width, height] box. Normalizing to 0-1 removes the ambiguity
// between inch and pixel units in the provider's coordinate systems.
func polygonToBBox(polygon []float64, pageWidth, pageHeight float64) domain.BoundingBox {
	if len(polygon) < 8 || pageWidth == 0 || pageHeight == 0 {
		return domain.BoundingBox{}
	}

	minX, minY := polygon[0], polygon[1]
	maxX, maxY := polygon[0], polygon[1]
	for i := 2; i+1 < len(polygon); i += 2 {
		minX = min(minX, polygon[i])
		maxX = max(maxX, polygon[i])
		minY = min(minY, polygon[i+1])
		maxY = max(maxY, polygon[i+1])
	}

	return domain.BoundingBox{
		minX / pageWidth,
		minY / pageHeight,
		(maxX - minX) / pageWidth,
		(maxY - minY) / pageHeight,
	}
}

var _ port.TextExtractor = (*Client)(nil)
