package services

import (
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
)

// ResolvedSchedule - результат резолва расписания консультория на дату.
// Start и End - абсолютные моменты на этой дате в таймзоне движка
type ResolvedSchedule struct {
	Open   bool
	Reason domain.ClosureReason
	Start  time.Time
	End    time.Time
	Window domain.OperatingWindow
}

// ScheduleResolver - чистая функция от (конфиг консультория, календарь, дата),
// без побочных эффектов
type ScheduleResolver struct {
	defaultWindow domain.OperatingWindow
	location      *time.Location
}

func NewScheduleResolver(cfg *config.Config) *ScheduleResolver {
	return &ScheduleResolver{
		defaultWindow: domain.OperatingWindow{
			Start: cfg.DefaultWindow.Start,
			End:   cfg.DefaultWindow.End,
		},
		location: cfg.Location,
	}
}

// Resolve определяет, работает ли консульторий в указанную дату.
// Приоритет: праздник > выходной > окно по дню недели / фиксированное окно
func (r *ScheduleResolver) Resolve(consultorio *domain.Consultorio, holidays *domain.HolidayCalendar, date time.Time) (ResolvedSchedule, error) {
	date = date.In(r.location)

	if holidays.Contains(date) {
		return ResolvedSchedule{Open: false, Reason: domain.ClosureReasonHoliday}, nil
	}

	weekday := domain.WeekdayOf(date.Weekday())
	if consultorio.ClosedOn(weekday) {
		return ResolvedSchedule{Open: false, Reason: domain.ClosureReasonWeekend}, nil
	}

	window, ok := consultorio.WindowOn(weekday)
	if !ok {
		window = r.defaultWindow
	}
	if !window.Valid() {
		return ResolvedSchedule{}, domain.ErrInvalidWindow
	}

	return ResolvedSchedule{
		Open:   true,
		Start:  window.Start.On(date),
		End:    window.End.On(date),
		Window: window,
	}, nil
}

// StartOfDay нормализует момент к началу его календарного дня
// в таймзоне движка
func (r *ScheduleResolver) StartOfDay(t time.Time) time.Time {
	t = t.In(r.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, r.location)
}
