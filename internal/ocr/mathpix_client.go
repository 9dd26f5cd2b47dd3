package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mathmemo-backend/internal/config"
)

// Client turns handwriting stroke coordinates into text.
type Client interface {
	Transcribe(ctx context.Context, xs, ys [][]float64) (string, error)
}

// MathpixClient calls the Mathpix strokes endpoint. One blocking call per
// transcription, no retries; failures degrade at the grading layer.
type MathpixClient struct {
	appID   string
	appKey  string
	baseURL string
	client  *http.Client
}

func NewMathpixClient(cfg config.MathpixConfig) (*MathpixClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &MathpixClient{
		appID:   cfg.AppID,
		appKey:  cfg.AppKey,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type strokesRequest struct {
	Strokes strokesWrapper `json:"strokes"`
}

type strokesWrapper struct {
	Strokes strokeArrays `json:"strokes"`
}

type strokeArrays struct {
	X [][]float64 `json:"x"`
	Y [][]float64 `json:"y"`
}

type strokesResponse struct {
	Text        string `json:"text"`
	LatexStyled string `json:"latex_styled"`
	AsciiMath   string `json:"asciimath"`
	Data        []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"data"`
	Error string `json:"error"`
}

// Transcribe sends the per-stroke coordinate arrays and extracts the best
// available text field from the response.
func (m *MathpixClient) Transcribe(ctx context.Context, xs, ys [][]float64) (string, error) {
	if len(xs) == 0 {
		return "", fmt.Errorf("no strokes to transcribe")
	}

	requestBody, err := json.Marshal(strokesRequest{
		Strokes: strokesWrapper{Strokes: strokeArrays{X: xs, Y: ys}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal strokes request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v3/strokes", bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("create strokes request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("app_id", m.appID)
	req.Header.Set("app_key", m.appKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call strokes API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read strokes response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("strokes API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var result strokesResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return "", fmt.Errorf("decode strokes response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("strokes API error: %s", result.Error)
	}

	text := extractText(&result)
	if text == "" {
		return "", fmt.Errorf("no text field in strokes response")
	}
	return text, nil
}

// extractText falls back through the known response fields; older API
// versions populate latex_styled or data instead of text.
func extractText(result *strokesResponse) string {
	if t := strings.TrimSpace(result.Text); t != "" {
		return t
	}
	if t := strings.TrimSpace(result.LatexStyled); t != "" {
		return t
	}
	if t := strings.TrimSpace(result.AsciiMath); t != "" {
		return t
	}
	var parts []string
	for _, d := range result.Data {
		if v := strings.TrimSpace(d.Value); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}
