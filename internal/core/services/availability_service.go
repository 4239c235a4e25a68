package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/out"
)

// AvailabilityService - read path движка: резолв расписания, генерация сетки,
// занятость, истечение. Без блокировок, может выполняться параллельно
// без ограничений
type AvailabilityService struct {
	storePort    out.AppointmentStorePort
	registryPort out.RegistryPort
	cachePort    out.CachePort
	resolver     *ScheduleResolver
	granularity  time.Duration
	logger       out.LoggerPort
	now          func() time.Time
}

func NewAvailabilityService(
	storePort out.AppointmentStorePort,
	registryPort out.RegistryPort,
	cachePort out.CachePort,
	cfg *config.Config,
	logger out.LoggerPort,
) *AvailabilityService {
	loc := cfg.Location
	return &AvailabilityService{
		storePort:    storePort,
		registryPort: registryPort,
		cachePort:    cachePort,
		resolver:     NewScheduleResolver(cfg),
		granularity:  cfg.Granularity,
		logger:       logger.WithModule("AvailabilityService"),
		now:          func() time.Time { return time.Now().In(loc) },
	}
}

// WithClock подменяет источник времени, используется тестами
func (s *AvailabilityService) WithClock(now func() time.Time) *AvailabilityService {
	s.now = now
	return s
}

func (s *AvailabilityService) GetAvailability(ctx context.Context, consultorioID uuid.UUID, date time.Time) (*domain.AvailabilityView, error) {
	consultorio, err := s.consultorio(ctx, consultorioID)
	if err != nil {
		return nil, err
	}

	holidays, err := s.holidayCalendar(ctx)
	if err != nil {
		return nil, err
	}

	day := s.resolver.StartOfDay(date)
	view := &domain.AvailabilityView{
		ConsultorioID:   consultorio.ID,
		ConsultorioName: consultorio.Name,
		Date:            json_types.Date{Date: day},
		Slots:           []domain.Slot{},
	}

	schedule, err := s.resolver.Resolve(consultorio, holidays, day)
	if err != nil {
		return nil, err
	}
	if !schedule.Open {
		view.ClosureReason = schedule.Reason
		return view, nil
	}
	view.Open = true

	grid, err := GenerateGrid(schedule.Start, schedule.End, s.granularity)
	if err != nil {
		return nil, err
	}

	appointments, err := s.storePort.ListActive(ctx, consultorio.ID, day)
	if err != nil {
		s.logger.Error("availability.store.list_failed", out.LogFields{
			"consultorioId": consultorioID,
			"date":          day.Format("2006-01-02"),
			"error":         err.Error(),
		})
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	occupancy, conflicts := MapOccupancy(grid, s.granularity, appointments)
	for _, conflict := range conflicts {
		// Сигнал нарушения гарантии атомарности выше по стеку,
		// view при этом отдаётся best-effort
		s.logger.Warn("availability.conflict_detected", out.LogFields{
			"consultorioId": consultorioID,
			"slotStart":     conflict.SlotStart.Format("2006-01-02 15:04"),
			"appointments":  conflict.AppointmentIDs,
		})
	}

	now := s.now()
	for _, slotStart := range grid {
		slot := domain.Slot{
			Start:  slotStart,
			End:    slotStart.Add(s.granularity),
			Status: domain.SlotStatusAvailable,
		}
		// Занятость имеет приоритет над истечением
		if info, occupied := occupancy.Lookup(slotStart); occupied {
			slot.Status = domain.SlotStatusOccupied
			slot.Occupancy = &info
			slot.Conflict = occupancy.Conflicted(slotStart)
		} else if Elapsed(slotStart, now) {
			slot.Status = domain.SlotStatusElapsed
		}
		view.Slots = append(view.Slots, slot)
	}

	return view, nil
}

func (s *AvailabilityService) ListConsultorios(ctx context.Context) ([]domain.Consultorio, error) {
	consultorios, err := s.registryPort.ListConsultorios(ctx)
	if err != nil {
		return nil, fmt.Errorf("list consultorios: %w", err)
	}

	active := consultorios[:0]
	for _, c := range consultorios {
		if c.Active {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *AvailabilityService) DayOverview(ctx context.Context, date time.Time) ([]domain.DayAvailability, error) {
	consultorios, err := s.ListConsultorios(ctx)
	if err != nil {
		return nil, err
	}

	holidays, err := s.holidayCalendar(ctx)
	if err != nil {
		return nil, err
	}

	day := s.resolver.StartOfDay(date)
	overview := make([]domain.DayAvailability, 0, len(consultorios))
	for i := range consultorios {
		consultorio := &consultorios[i]
		schedule, err := s.resolver.Resolve(consultorio, holidays, day)
		if err != nil {
			return nil, err
		}

		entry := domain.DayAvailability{
			ConsultorioID: consultorio.ID,
			Name:          consultorio.Name,
			Open:          schedule.Open,
			ClosureReason: schedule.Reason,
		}
		if schedule.Open {
			window := schedule.Window
			entry.Window = &window
		}
		overview = append(overview, entry)
	}
	return overview, nil
}

// resolveFor резолвит расписание консультория на дату, общий шаг
// read и write path
func (s *AvailabilityService) resolveFor(ctx context.Context, consultorioID uuid.UUID, date time.Time) (*domain.Consultorio, ResolvedSchedule, error) {
	consultorio, err := s.consultorio(ctx, consultorioID)
	if err != nil {
		return nil, ResolvedSchedule{}, err
	}

	holidays, err := s.holidayCalendar(ctx)
	if err != nil {
		return nil, ResolvedSchedule{}, err
	}

	schedule, err := s.resolver.Resolve(consultorio, holidays, s.resolver.StartOfDay(date))
	if err != nil {
		return nil, ResolvedSchedule{}, err
	}
	return consultorio, schedule, nil
}

func (s *AvailabilityService) consultorio(ctx context.Context, consultorioID uuid.UUID) (*domain.Consultorio, error) {
	if s.cachePort != nil {
		if consultorio, hit := s.cachePort.GetConsultorio(ctx, consultorioID); hit {
			return consultorio, nil
		}
	}

	consultorio, err := s.registryPort.GetConsultorio(ctx, consultorioID)
	if err != nil {
		return nil, err
	}
	if !consultorio.Active {
		return nil, domain.ErrNotFound
	}

	if s.cachePort != nil {
		s.cachePort.StoreConsultorio(ctx, consultorio)
	}
	return consultorio, nil
}

func (s *AvailabilityService) holidayCalendar(ctx context.Context) (*domain.HolidayCalendar, error) {
	if s.cachePort != nil {
		if calendar, hit := s.cachePort.GetHolidayCalendar(ctx); hit {
			return calendar, nil
		}
	}

	calendar, err := s.registryPort.GetHolidayCalendar(ctx)
	if err != nil {
		return nil, fmt.Errorf("holiday calendar: %w", err)
	}

	if s.cachePort != nil {
		s.cachePort.StoreHolidayCalendar(ctx, calendar)
	}
	return calendar, nil
}

// Инвалидация кэша реестра, дёргается слушателем RabbitMQ

func (s *AvailabilityService) InvalidateConsultorio(ctx context.Context, consultorioID uuid.UUID) {
	if s.cachePort != nil {
		s.cachePort.InvalidateConsultorio(ctx, consultorioID)
	}
}

func (s *AvailabilityService) InvalidateAllConsultorios(ctx context.Context) {
	if s.cachePort != nil {
		s.cachePort.InvalidateAllConsultorios(ctx)
	}
}

func (s *AvailabilityService) InvalidateHolidayCalendar(ctx context.Context) {
	if s.cachePort != nil {
		s.cachePort.InvalidateHolidayCalendar(ctx)
	}
}
