package app

import (
	"regexp"
	"strconv"

	"cook-bot/internal/domain/entity"
)

var (
	temperaturePattern = regexp.MustCompile(`(?is)temperature.*?(\d+(?:\.\d+)?)`)
	timePattern        = regexp.MustCompile(`(?is)time.*?(\d+(?:\.\d+)?)`)
)

// ParseInstructions извлекает температуру и время из свободного текста.
// Поля ищутся независимо; отсутствие одного не мешает другому.
func ParseInstructions(text string) entity.CookingParameters {
	return entity.CookingParameters{
		TemperatureCelsius: firstNumberAfter(temperaturePattern, text),
		TimeMinutes:        firstNumberAfter(timePattern, text),
	}
}

func firstNumberAfter(pattern *regexp.Regexp, text string) *float64 {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}
