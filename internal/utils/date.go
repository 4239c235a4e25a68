package utils

import (
	"fmt"
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
)

// StartOfDay возвращает начало календарного дня момента t в его таймзоне
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartNextDay возвращает начало следующего календарного дня
func StartNextDay(t time.Time) time.Time {
	return StartOfDay(t.AddDate(0, 0, 1))
}

// ParseDate парсит дату из строки: сначала RFC3339, потом дата со временем
// без таймзоны, потом дата без времени. Даты без таймзоны читаются
// в таймзоне движка
func ParseDate(str string) (time.Time, error) {
	parsedDate, err := time.Parse(time.RFC3339, str)
	if err != nil {
		loc := json_types.Location()
		parsedDate, err = time.ParseInLocation("2006-01-02T15:04:05", str, loc)
		if err != nil {
			parsedDate, err = time.ParseInLocation("2006-01-02", str, loc)
			if err != nil {
				return time.Time{}, fmt.Errorf("failed to parse time: %v", err)
			}
		}
	}

	return parsedDate, nil
}
