package explain

import (
	"context"
	"fmt"
)

// RuleBased generates deterministic explanations from fixed templates.
// Identical inputs always produce the identical string, which keeps the
// fallback path testable and reproducible.
type RuleBased struct{}

// Generate never fails. The three templates mirror the risk level bands:
// below 40, 40-69, and 70 and up.
func (RuleBased) Generate(_ context.Context, in Input) (string, error) {
	name := in.NeighborhoodName
	if name == "" {
		name = "your area"
	}
	w := in.Weather

	if in.RiskScore < 40 {
		return fmt.Sprintf("Low risk of power outage in %s. Weather conditions are within normal range with %.1f°C and %.1f km/h winds. No immediate preparation needed, but it's always good to have flashlights and charged devices ready.",
			name, w.Temp, w.WindSpeed), nil
	}

	if in.RiskScore < 70 {
		concern := "concerning weather patterns"
		if w.WindSpeed > 40 {
			concern = fmt.Sprintf("high winds of %.1f km/h", w.WindSpeed)
		} else if w.Temp < 0 {
			concern = fmt.Sprintf("freezing temperatures of %.1f°C", w.Temp)
		} else if w.Precipitation > 2 {
			concern = fmt.Sprintf("heavy precipitation of %.1f mm", w.Precipitation)
		}

		return fmt.Sprintf("Moderate risk of power outage in %s. Our analysis detected %s that may affect power lines. Consider charging essential devices, having flashlights ready, and keeping emergency contacts accessible.",
			name, concern), nil
	}

	mainConcern := "severe weather conditions"
	action := "Take immediate preparatory measures"
	if w.WindSpeed > 50 {
		mainConcern = fmt.Sprintf("dangerous wind speeds of %.1f km/h", w.WindSpeed)
		action = "Secure loose outdoor items and stay indoors"
	} else if w.Temp < -5 {
		mainConcern = fmt.Sprintf("extreme cold of %.1f°C", w.Temp)
		action = "Prepare extra blankets and heating alternatives"
	} else if w.Precipitation > 3 {
		mainConcern = fmt.Sprintf("severe precipitation of %.1f mm", w.Precipitation)
		action = "Prepare for possible flooding and power disruptions"
	}

	return fmt.Sprintf("High risk of power outage in %s. Weather analysis shows %s that significantly increases outage probability. %s. Charge all essential medical devices immediately, prepare backup power sources, and have emergency supplies ready.",
		name, mainConcern, action), nil
}
