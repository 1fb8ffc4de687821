package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherTool(t *testing.T) {
	result, err := (&WeatherTool{}).Execute(context.Background(), map[string]interface{}{"city": "sf"})
	require.NoError(t, err)
	assert.Equal(t, "It's always sunny in sf!", result.Value)

	_, err = (&WeatherTool{}).Execute(context.Background(), map[string]interface{}{"city": ""})
	assert.Error(t, err)
}

func TestWeatherReportValidate(t *testing.T) {
	valid := WeatherReport{
		Condition:     "rain",
		TemperatureC:  12,
		HumidityPct:   80,
		WindSpeedMS:   5,
		WindDirection: "NW",
		VisibilityKM:  4,
		PressureHPA:   1001,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *WeatherReport)
	}{
		{"humidity above 100", func(r *WeatherReport) { r.HumidityPct = 101 }},
		{"negative wind", func(r *WeatherReport) { r.WindSpeedMS = -1 }},
		{"negative precipitation", func(r *WeatherReport) { r.PrecipitationMM = -0.5 }},
		{"zero pressure", func(r *WeatherReport) { r.PressureHPA = 0 }},
		{"empty condition", func(r *WeatherReport) { r.Condition = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := valid
			tt.mutate(&report)
			assert.ErrorContains(t, report.Validate(), "invalid weather report")
		})
	}
}

func TestParseWeatherReport(t *testing.T) {
	report, err := ParseWeatherReport([]byte(`{
		"condition": "cloudy", "temperature_c": 18, "humidity_pct": 60, "wind_speed_ms": 2,
		"wind_direction": "S", "precipitation_mm": 0, "visibility_km": 10, "pressure_hpa": 1012
	}`))
	require.NoError(t, err)
	assert.Equal(t, "cloudy", report.Condition)

	_, err = ParseWeatherReport([]byte(`{"condition": "cloudy"}`))
	assert.Error(t, err, "missing fields are rejected")

	_, err = ParseWeatherReport([]byte(`not json`))
	assert.Error(t, err)
}
