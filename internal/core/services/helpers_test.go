package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/out"
)

// Общие фейки и фикстуры для тестов сервисов

type nopLogger struct{}

func (l nopLogger) Debug(event string, fields out.LogFields)  {}
func (l nopLogger) Info(event string, fields out.LogFields)   {}
func (l nopLogger) Warn(event string, fields out.LogFields)   {}
func (l nopLogger) Error(event string, fields out.LogFields)  {}
func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Timezone = "UTC"
	cfg.Location = time.UTC
	cfg.DefaultWindow.Start = json_types.NewClockTime(8, 0)
	cfg.DefaultWindow.End = json_types.NewClockTime(17, 0)
	cfg.Granularity = 15 * time.Minute
	cfg.DefaultBooking = 30 * time.Minute
	cfg.Engine.GranularityMinutes = 15
	cfg.Engine.DefaultAppointmentMinutes = 30
	cfg.Engine.LockTimeout = time.Second
	json_types.SetLocation(time.UTC)
	return cfg
}

type fakeRegistry struct {
	consultorios map[uuid.UUID]*domain.Consultorio
	holidays     *domain.HolidayCalendar
}

func newFakeRegistry(consultorios ...*domain.Consultorio) *fakeRegistry {
	r := &fakeRegistry{
		consultorios: make(map[uuid.UUID]*domain.Consultorio),
		holidays:     &domain.HolidayCalendar{},
	}
	for _, c := range consultorios {
		r.consultorios[c.ID] = c
	}
	return r
}

func (r *fakeRegistry) GetConsultorio(ctx context.Context, consultorioID uuid.UUID) (*domain.Consultorio, error) {
	c, ok := r.consultorios[consultorioID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (r *fakeRegistry) ListConsultorios(ctx context.Context) ([]domain.Consultorio, error) {
	var result []domain.Consultorio
	for _, c := range r.consultorios {
		result = append(result, *c)
	}
	return result, nil
}

func (r *fakeRegistry) GetHolidayCalendar(ctx context.Context) (*domain.HolidayCalendar, error) {
	return r.holidays, nil
}

func testConsultorio() *domain.Consultorio {
	return &domain.Consultorio{
		ID:            uuid.MustParse("0b189acb-85c5-4690-b821-669cbb224cd9"),
		Name:          "Consultorio 1",
		OccupancyType: domain.OccupancyTypeFixed,
		Active:        true,
	}
}

// Среда 2026-09-02, рабочий день
func testDate() time.Time {
	return time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
}

func at(hour, minute int) time.Time {
	return time.Date(2026, 9, 2, hour, minute, 0, 0, time.UTC)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
