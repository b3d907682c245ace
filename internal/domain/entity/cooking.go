package entity

import (
	"strconv"
	"strings"
)

// CookingParameters параметры приготовления, извлечённые из текста.
// Любое поле может быть nil, если его не удалось разобрать.
type CookingParameters struct {
	TemperatureCelsius *float64 `json:"temperature_celsius,omitempty"`
	TimeMinutes        *float64 `json:"time_minutes,omitempty"`
}

// Empty сообщает, что ни одно поле не найдено.
func (p CookingParameters) Empty() bool {
	return p.TemperatureCelsius == nil && p.TimeMinutes == nil
}

const (
	temperaturePrefix = "TEMP:"
	timePrefix        = "TIME:"
)

// CommandRequest одна логическая команда для контроллера.
type CommandRequest struct {
	Payload     string
	RequiresAck bool
}

// TemperatureCommand собирает команду TEMP:<value> с ожиданием ACK.
func TemperatureCommand(celsius float64) CommandRequest {
	return CommandRequest{Payload: temperaturePrefix + formatNumber(celsius), RequiresAck: true}
}

// TimeCommand собирает команду TIME:<value> с ожиданием ACK.
func TimeCommand(minutes float64) CommandRequest {
	return CommandRequest{Payload: timePrefix + formatNumber(minutes), RequiresAck: true}
}

// formatNumber всегда оставляет дробную часть: 75 -> "75.0", 1.5 -> "1.5".
// Прошивка контроллера ожидает именно такой вид.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
