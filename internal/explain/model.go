package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jcarrasco96/outage-risk-service/internal/resilience"
)

// ErrNoCredential is returned when no usable bearer token is configured.
// The caller is expected to fall back to the rule-based generator.
var ErrNoCredential = errors.New("text generation token not configured")

// placeholderToken is the sample value shipped in .env templates; treated
// the same as an absent token.
const placeholderToken = "your-github-token-here"

const systemPrompt = "You are a helpful assistant that explains weather and power risks in simple, accessible language for vulnerable communities."

// ModelClient calls the GitHub Models chat completions endpoint to generate
// an explanation.
type ModelClient struct {
	token   string
	model   string
	baseURL string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewModelClient(client *http.Client, token string) *ModelClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "github-models",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &ModelClient{
		token:   token,
		model:   "gpt-4o-mini",
		baseURL: "https://models.inference.ai.azure.com/chat/completions",
		httpCfg: resilience.HTTPClientConfig{
			Client: client,
			Backoff: resilience.BackoffConfig{
				MaxRetries:      1,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     2 * time.Second,
			},
		},
		circuit: cb,
	}
}

// Generate submits the structured prompt with a bounded response length and
// low-moderate creativity. A missing or placeholder token short-circuits
// with ErrNoCredential without making a network call.
func (c *ModelClient) Generate(ctx context.Context, in Input) (string, error) {
	if c.token == "" || c.token == placeholderToken {
		return "", ErrNoCredential
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(in)},
		},
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)
		return req, nil
	}

	resp, err := resilience.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	if len(payload.Choices) == 0 {
		return "", errors.New("chat response contained no choices")
	}

	return strings.TrimSpace(payload.Choices[0].Message.Content), nil
}

// buildPrompt renders the user message: risk summary, forecast values, and
// the detected anomalies as a bullet list.
func buildPrompt(in Input) string {
	name := in.NeighborhoodName
	if name == "" {
		name = in.NeighborhoodID
	}

	var anomalies strings.Builder
	for i, factor := range in.AnomalyFactors {
		if i > 0 {
			anomalies.WriteString("\n")
		}
		anomalies.WriteString("- " + factor)
	}

	return fmt.Sprintf(`You are explaining power outage risk to vulnerable households (elderly, people with disabilities, low-income families) who depend on electricity for medical devices or daily needs.

Neighborhood: %s
Risk Score: %d%% (%s Risk)
Current Weather Forecast (Next 24 hours):
- Temperature: %.1f°C
- Wind Speed: %.1f km/h
- Precipitation: %.1f mm

Detected Anomalies:
%s

Write a clear, empathetic explanation (2-3 sentences) that:
1. States the risk level in plain language
2. Explains the main weather factor causing concern
3. Provides one actionable preparation tip

Use simple language, avoid technical jargon, and be direct but caring.`,
		name, in.RiskScore, in.RiskLevel,
		in.Weather.Temp, in.Weather.WindSpeed, in.Weather.Precipitation,
		anomalies.String())
}

// Chat completions wire types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
