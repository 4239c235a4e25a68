package domain

import (
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
	"github.com/google/uuid"
)

type OccupancyType string

const (
	OccupancyTypeFixed    OccupancyType = "fixed"
	OccupancyTypeRotative OccupancyType = "rotative"
)

type Weekday string

const (
	WeekdayMon Weekday = "mon"
	WeekdayTue Weekday = "tue"
	WeekdayWed Weekday = "wed"
	WeekdayThu Weekday = "thu"
	WeekdayFri Weekday = "fri"
	WeekdaySat Weekday = "sat"
	WeekdaySun Weekday = "sun"
)

var weekdayNames = map[time.Weekday]Weekday{
	time.Monday:    WeekdayMon,
	time.Tuesday:   WeekdayTue,
	time.Wednesday: WeekdayWed,
	time.Thursday:  WeekdayThu,
	time.Friday:    WeekdayFri,
	time.Saturday:  WeekdaySat,
	time.Sunday:    WeekdaySun,
}

func WeekdayOf(d time.Weekday) Weekday {
	return weekdayNames[d]
}

// OperatingWindow - дневное окно работы, полуоткрытый интервал [Start, End)
type OperatingWindow struct {
	Start json_types.ClockTime `json:"start"`
	End   json_types.ClockTime `json:"end"`
}

func (w OperatingWindow) Valid() bool {
	return w.Start.Before(w.End)
}

// Consultorio - бронируемый кабинет со своим расписанием работы.
// Конфигурация приходит из реестра и считается неизменяемой
// в рамках одного запроса
type Consultorio struct {
	ID            uuid.UUID                   `json:"id"`
	Name          string                      `json:"name"`
	Description   string                      `json:"description,omitempty"`
	Location      string                      `json:"location,omitempty"`
	Capacity      int                         `json:"capacity,omitempty"`
	Equipment     []string                    `json:"equipment,omitempty"`
	OccupancyType OccupancyType               `json:"occupancyType"`
	FixedWindow   *OperatingWindow            `json:"fixedWindow,omitempty"`
	WeeklyWindows map[Weekday]OperatingWindow `json:"weeklyWindows,omitempty"`
	// ClosedWeekdays переопределяет дефолтную политику выходных.
	// nil означает дефолт: суббота и воскресенье закрыты
	ClosedWeekdays *[]Weekday `json:"closedWeekdays,omitempty"`
	Active         bool       `json:"active"`
}

var defaultClosedWeekdays = []Weekday{WeekdaySat, WeekdaySun}

// ClosedOn сообщает, закрыт ли консульторий в данный день недели
func (c *Consultorio) ClosedOn(d Weekday) bool {
	days := defaultClosedWeekdays
	if c.ClosedWeekdays != nil {
		days = *c.ClosedWeekdays
	}
	for _, closed := range days {
		if closed == d {
			return true
		}
	}
	return false
}

// WindowOn возвращает окно работы для дня недели: сначала таблица по дням,
// потом фиксированное окно. false - окно не задано, применяется дефолт движка
func (c *Consultorio) WindowOn(d Weekday) (OperatingWindow, bool) {
	if w, ok := c.WeeklyWindows[d]; ok {
		return w, true
	}
	if c.FixedWindow != nil {
		return *c.FixedWindow, true
	}
	return OperatingWindow{}, false
}
