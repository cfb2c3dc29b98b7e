package explain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcarrasco96/outage-risk-service/internal/weather"
)

func testModelClient(baseURL, token string) *ModelClient {
	c := NewModelClient(&http.Client{Timeout: 5 * time.Second}, token)
	c.baseURL = baseURL
	return c
}

func testInput() Input {
	return Input{
		NeighborhoodID:   "riverside",
		NeighborhoodName: "Riverside",
		RiskScore:        72,
		RiskLevel:        "High",
		Weather:          weather.Forecast{Temp: -8.0, WindSpeed: 55.0, Precipitation: 3.5},
		AnomalyFactors:   []string{"Unusually high winds (55.0 km/h vs avg 25.0 km/h)"},
	}
}

func TestModelClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.InDelta(t, 0.7, req.Temperature, 1e-9)
		assert.Equal(t, 200, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Contains(t, req.Messages[1].Content, "Riverside")
		assert.Contains(t, req.Messages[1].Content, "Risk Score: 72% (High Risk)")
		assert.Contains(t, req.Messages[1].Content, "- Unusually high winds (55.0 km/h vs avg 25.0 km/h)")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Stay safe tonight.  "}}]}`))
	}))
	defer srv.Close()

	text, err := testModelClient(srv.URL, "test-token").Generate(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, "Stay safe tonight.", text)
}

func TestModelClient_Generate_NoCredential(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		_, err := testModelClient("http://unused", "").Generate(context.Background(), testInput())
		assert.ErrorIs(t, err, ErrNoCredential)
	})

	t.Run("placeholder token", func(t *testing.T) {
		_, err := testModelClient("http://unused", "your-github-token-here").Generate(context.Background(), testInput())
		assert.ErrorIs(t, err, ErrNoCredential)
	})
}

func TestModelClient_Generate_Errors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := testModelClient(srv.URL, "test-token").Generate(context.Background(), testInput())
		require.Error(t, err)
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}))
		defer srv.Close()

		_, err := testModelClient(srv.URL, "test-token").Generate(context.Background(), testInput())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("{not json"))
		}))
		defer srv.Close()

		_, err := testModelClient(srv.URL, "test-token").Generate(context.Background(), testInput())
		require.Error(t, err)
	})
}

func TestBuildPrompt_FallsBackToID(t *testing.T) {
	in := testInput()
	in.NeighborhoodName = ""

	prompt := buildPrompt(in)
	assert.Contains(t, prompt, "Neighborhood: riverside")
}
