package domain

import (
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
)

// HolidayCalendar - производственный календарь: даты, в которые закрыты все
// консультории независимо от дня недели. Меняется только конфигурацией
type HolidayCalendar struct {
	Dates []json_types.Date `json:"dates"`
}

// Contains проверяет дату по календарю, nil-календарь пуст
func (c *HolidayCalendar) Contains(date time.Time) bool {
	if c == nil {
		return false
	}
	key := date.Format("2006-01-02")
	for _, d := range c.Dates {
		if d.Date.Format("2006-01-02") == key {
			return true
		}
	}
	return false
}
