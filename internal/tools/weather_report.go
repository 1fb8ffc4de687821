package tools

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// WeatherReport is the structured weather response
type WeatherReport struct {
	City            string  `json:"city,omitempty"`
	Condition       string  `json:"condition"`
	TemperatureC    float64 `json:"temperature_c"`
	HumidityPct     float64 `json:"humidity_pct"`
	WindSpeedMS     float64 `json:"wind_speed_ms"`
	WindDirection   string  `json:"wind_direction"`
	PrecipitationMM float64 `json:"precipitation_mm"`
	VisibilityKM    float64 `json:"visibility_km"`
	PressureHPA     float64 `json:"pressure_hpa"`
}

const weatherReportSchema = `{
	"type": "object",
	"required": ["condition", "temperature_c", "humidity_pct", "wind_speed_ms", "wind_direction",
		"precipitation_mm", "visibility_km", "pressure_hpa"],
	"properties": {
		"city": {"type": "string"},
		"condition": {"type": "string", "minLength": 1},
		"temperature_c": {"type": "number", "minimum": -100, "maximum": 70},
		"humidity_pct": {"type": "number", "minimum": 0, "maximum": 100},
		"wind_speed_ms": {"type": "number", "minimum": 0},
		"wind_direction": {"type": "string", "minLength": 1},
		"precipitation_mm": {"type": "number", "minimum": 0},
		"visibility_km": {"type": "number", "minimum": 0},
		"pressure_hpa": {"type": "number", "minimum": 1}
	}
}`

var compiledReportSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(weatherReportSchema))
})

// Validate checks the report's fields are present and in range
func (r WeatherReport) Validate() error {
	schema, err := compiledReportSchema()
	if err != nil {
		return fmt.Errorf("compile weather report schema: %w", err)
	}
	return validateDocument(schema, gojsonschema.NewGoLoader(r))
}

// Summary renders the report as a single console line
func (r WeatherReport) Summary() string {
	line := fmt.Sprintf("%s, %.1f°C, humidity %.0f%%, wind %.1f m/s %s, precipitation %.1f mm, visibility %.1f km, pressure %.1f hPa",
		r.Condition, r.TemperatureC, r.HumidityPct, r.WindSpeedMS, r.WindDirection,
		r.PrecipitationMM, r.VisibilityKM, r.PressureHPA)
	if r.City == "" {
		return line
	}
	return r.City + ": " + line
}

// ParseWeatherReport decodes and validates a weather report document
func ParseWeatherReport(data []byte) (WeatherReport, error) {
	schema, err := compiledReportSchema()
	if err != nil {
		return WeatherReport{}, fmt.Errorf("compile weather report schema: %w", err)
	}
	if err := validateDocument(schema, gojsonschema.NewBytesLoader(data)); err != nil {
		return WeatherReport{}, err
	}

	var report WeatherReport
	if err := json.Unmarshal(data, &report); err != nil {
		return WeatherReport{}, fmt.Errorf("decode weather report: %w", err)
	}
	return report, nil
}

func validateDocument(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return fmt.Errorf("invalid weather report: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("invalid weather report: %s", strings.Join(msgs, "; "))
}
