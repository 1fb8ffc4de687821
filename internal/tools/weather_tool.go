package tools

import (
	"context"
	"fmt"
	"strings"
)

// WeatherTool is a stub weather lookup
type WeatherTool struct{}

func (w *WeatherTool) Name() string {
	return "get_weather"
}

func (w *WeatherTool) Description() string {
	return "Get weather for a given city."
}

func (w *WeatherTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"city": map[string]interface{}{
			"type":        "string",
			"description": "Name of the city",
		},
	}
}

func (w *WeatherTool) RequiredParameters() []string {
	return []string{"city"}
}

func (w *WeatherTool) Execute(ctx context.Context, args map[string]interface{}) (Result, error) {
	city, ok := args["city"].(string)
	if !ok || strings.TrimSpace(city) == "" {
		return Result{}, fmt.Errorf("city parameter must be a non-empty string")
	}
	return Value(fmt.Sprintf("It's always sunny in %s!", city)), nil
}

const WeatherReportToolName = "get_weather_report"

// WeatherReportTool returns a structured WeatherReport for a city
type WeatherReportTool struct{}

func (w *WeatherReportTool) Name() string {
	return WeatherReportToolName
}

func (w *WeatherReportTool) Description() string {
	return "Get a structured weather report (condition, temperature, humidity, wind, precipitation, visibility, pressure) for a city."
}

func (w *WeatherReportTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"city": map[string]interface{}{
			"type":        "string",
			"description": "Name of the city",
		},
	}
}

func (w *WeatherReportTool) RequiredParameters() []string {
	return []string{"city"}
}

func (w *WeatherReportTool) Execute(ctx context.Context, args map[string]interface{}) (Result, error) {
	city, _ := args["city"].(string)
	report := WeatherReport{
		City:            city,
		Condition:       "sunny",
		TemperatureC:    21.5,
		HumidityPct:     55,
		WindSpeedMS:     3.4,
		WindDirection:   "W",
		PrecipitationMM: 0,
		VisibilityKM:    16,
		PressureHPA:     1015.2,
	}
	if err := report.Validate(); err != nil {
		return Result{}, err
	}
	return Value(report), nil
}
