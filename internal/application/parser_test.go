package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInstructions(t *testing.T) {
	params := ParseInstructions("Temperature: 75°C\nTime: 1.5 minutes\n")

	require.NotNil(t, params.TemperatureCelsius)
	require.NotNil(t, params.TimeMinutes)
	assert.Equal(t, 75.0, *params.TemperatureCelsius)
	assert.Equal(t, 1.5, *params.TimeMinutes)
}

func TestParseInstructions_OnlyTemperature(t *testing.T) {
	params := ParseInstructions("Temperature: 75°C\n")

	require.NotNil(t, params.TemperatureCelsius)
	assert.Equal(t, 75.0, *params.TemperatureCelsius)
	assert.Nil(t, params.TimeMinutes)
}

func TestParseInstructions_NoNumbers(t *testing.T) {
	params := ParseInstructions("no numbers here")

	assert.Nil(t, params.TemperatureCelsius)
	assert.Nil(t, params.TimeMinutes)
	assert.True(t, params.Empty())
}

func TestParseInstructions_KeywordWithoutNumber(t *testing.T) {
	params := ParseInstructions("Temperature: hot\nTime: 3 minutes")

	// После "Temperature" первое число стоит уже в строке времени.
	require.NotNil(t, params.TemperatureCelsius)
	assert.Equal(t, 3.0, *params.TemperatureCelsius)
	require.NotNil(t, params.TimeMinutes)
	assert.Equal(t, 3.0, *params.TimeMinutes)

	params = ParseInstructions("Time: until done")
	assert.Nil(t, params.TimeMinutes)
	assert.Nil(t, params.TemperatureCelsius)
}

func TestParseInstructions_CaseInsensitive(t *testing.T) {
	params := ParseInstructions("Food: Hot Dog\nTEMPERATURE - 80 C\ncooking TIME 2 min")

	require.NotNil(t, params.TemperatureCelsius)
	require.NotNil(t, params.TimeMinutes)
	assert.Equal(t, 80.0, *params.TemperatureCelsius)
	assert.Equal(t, 2.0, *params.TimeMinutes)
}

func TestParseInstructions_MalformedTimeKeepsTemperature(t *testing.T) {
	params := ParseInstructions("Temperature: 65.5°C\nTime: ???")

	require.NotNil(t, params.TemperatureCelsius)
	assert.Equal(t, 65.5, *params.TemperatureCelsius)
	assert.Nil(t, params.TimeMinutes)
}
