package weather

import "context"

// Forecast is the aggregated next-24-hours outlook for one coordinate:
// mean temperature, mean wind speed in km/h, and total precipitation.
// JSON keys match the weather_conditions block of the historical records
// so the two can be compared directly.
type Forecast struct {
	Temp          float64 `json:"temp"`
	WindSpeed     float64 `json:"wind_speed"`
	Precipitation float64 `json:"precipitation"`
}

// DefaultForecast is served whenever the upstream provider is unavailable.
// The pipeline degrades to these fixed values rather than failing a request.
var DefaultForecast = Forecast{Temp: 15.0, WindSpeed: 25.0, Precipitation: 1.5}

// Provider abstracts a forecast data source.
type Provider interface {
	Fetch(ctx context.Context, lat, lng float64) (Forecast, error)
}
