package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jcarrasco96/outage-risk-service/internal/resilience"
)

// forecastIntervals is how many 3-hour intervals make up the 24-hour window.
const forecastIntervals = 8

// OpenWeatherProvider fetches the 5-day/3-hour forecast from OpenWeatherMap
// and aggregates the first 24 hours.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg resilience.HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg: resilience.HTTPClientConfig{
			Client: client,
			Backoff: resilience.BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     2 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// Fetch returns the aggregated 24-hour forecast for a coordinate: mean
// temperature, mean wind speed converted from m/s to km/h, and summed
// precipitation, each rounded to one decimal.
func (p *OpenWeatherProvider) Fetch(ctx context.Context, lat, lng float64) (Forecast, error) {
	if p.apiKey == "" {
		return Forecast{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", fmt.Sprintf("%f", lat))
		values.Set("lon", fmt.Sprintf("%f", lng))
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := resilience.Do(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return Forecast{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		List []struct {
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Rain struct {
				ThreeH float64 `json:"3h"`
			} `json:"rain"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Forecast{}, err
	}

	if len(payload.List) == 0 {
		return Forecast{}, errors.New("forecast response contained no intervals")
	}

	intervals := payload.List
	if len(intervals) > forecastIntervals {
		intervals = intervals[:forecastIntervals]
	}

	var sumTemp, sumWind, sumRain float64
	for _, iv := range intervals {
		sumTemp += iv.Main.Temp
		sumWind += iv.Wind.Speed
		sumRain += iv.Rain.ThreeH
	}
	n := float64(len(intervals))

	return Forecast{
		Temp:          round1(sumTemp / n),
		WindSpeed:     round1(sumWind / n * 3.6), // m/s to km/h
		Precipitation: round1(sumRain),
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
