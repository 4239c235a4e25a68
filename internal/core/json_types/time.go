package json_types

import (
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime - время без даты и таймзоны ("08:30"), используется для окон
// работы консультория и границ слотов
type ClockTime struct {
	Hour   int
	Minute int
}

func NewClockTime(hour, minute int) ClockTime {
	return ClockTime{Hour: hour, Minute: minute}
}

// ParseClockTime парсит "15:04", если не удалось - пробует "15:04:05"
func ParseClockTime(str string) (ClockTime, error) {
	parsed, err := time.Parse("15:04", str)
	if err != nil {
		parsed, err = time.Parse("15:04:05", str)
		if err != nil {
			return ClockTime{}, fmt.Errorf("failed to parse clock time %q: %v", str, err)
		}
	}
	return ClockTime{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Minutes возвращает смещение от полуночи в минутах
func (t ClockTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t ClockTime) Before(other ClockTime) bool {
	return t.Minutes() < other.Minutes()
}

// On привязывает время к календарной дате в её таймзоне
func (t ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t *ClockTime) UnmarshalJSON(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("invalid clock time: %s", string(data))
	}
	// Убираем кавычки вокруг строки
	parsed, err := ParseClockTime(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
