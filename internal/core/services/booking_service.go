package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/in"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/out"
)

// BookingService - write path движка и единственный компонент, которому
// разрешено создавать и отменять записи. Проверка и коммит выполняются
// атомарно под эксклюзивной блокировкой на (консульторий, дата)
type BookingService struct {
	availability    *AvailabilityService
	storePort       out.AppointmentStorePort
	locks           *dayLocks
	granularity     time.Duration
	defaultDuration time.Duration
	lockTimeout     time.Duration
	logger          out.LoggerPort
	now             func() time.Time
}

func NewBookingService(
	availability *AvailabilityService,
	storePort out.AppointmentStorePort,
	cfg *config.Config,
	logger out.LoggerPort,
) *BookingService {
	loc := cfg.Location
	return &BookingService{
		availability:    availability,
		storePort:       storePort,
		locks:           newDayLocks(),
		granularity:     cfg.Granularity,
		defaultDuration: cfg.DefaultBooking,
		lockTimeout:     cfg.Engine.LockTimeout,
		logger:          logger.WithModule("BookingService"),
		now:             func() time.Time { return time.Now().In(loc) },
	}
}

// WithClock подменяет источник времени, используется тестами
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

func (s *BookingService) Book(ctx context.Context, req in.BookingRequest) (*domain.Appointment, error) {
	duration := time.Duration(req.DurationMinutes) * time.Minute
	if req.DurationMinutes == 0 {
		duration = s.defaultDuration
	}
	if duration <= 0 {
		return nil, domain.ErrInvalidWindow
	}

	consultorio, schedule, err := s.availability.resolveFor(ctx, req.ConsultorioID, req.Start)
	if err != nil {
		return nil, err
	}
	if !schedule.Open {
		return nil, domain.ErrClosedDay
	}

	start := req.Start.In(s.availability.resolver.location)
	if start.Before(s.now()) {
		return nil, domain.ErrPastSlot
	}

	// Бронирование обязано ложиться на границу сетки и целиком помещаться
	// в окно работы, выход за закрытие не усекается
	if !AlignedToGrid(start, schedule.Start, s.granularity) {
		return nil, domain.ErrMisaligned
	}
	end := start.Add(duration)
	if end.After(schedule.End) {
		return nil, domain.ErrMisaligned
	}

	day := s.availability.resolver.StartOfDay(start)
	// Бронирование занимает ceil(d/g) слотов, свободу проверяем по всему
	// их диапазону: внешняя запись в хвосте последнего слота тоже конфликт
	occupiedEnd := start.Add(occupiedSpan(duration, s.granularity))

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	release, err := s.locks.Acquire(lockCtx, lockKey(consultorio.ID, day))
	if err != nil {
		s.logger.Warn("booking.lock.timeout", out.LogFields{
			"consultorioId": consultorio.ID,
			"date":          day.Format("2006-01-02"),
		})
		return nil, err
	}
	defer release()

	// Занятость перечитывается под блокировкой: двое не могут одновременно
	// увидеть слот свободным и оба закоммитить
	if err := s.ensureFree(ctx, consultorio.ID, day, start, occupiedEnd); err != nil {
		return nil, err
	}

	now := s.now()
	appointment := domain.Appointment{
		ID:              uuid.New(),
		ConsultorioID:   consultorio.ID,
		Start:           json_types.DateTime{Date: start},
		DurationMinutes: int(duration / time.Minute),
		Status:          domain.AppointmentStatusScheduled,
		PatientRef:      req.PatientRef,
		PractitionerRef: req.PractitionerRef,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	committed, err := s.storePort.Insert(ctx, appointment)
	if errors.Is(err, domain.ErrSlotOccupied) {
		// Констрейнт хранилища сработал под нашей блокировкой - писал кто-то
		// внешний. Один раз перепроверяем занятость перед повторной вставкой
		s.logger.Warn("booking.store.conflict_under_lock", out.LogFields{
			"consultorioId": consultorio.ID,
			"start":         start.Format("2006-01-02 15:04"),
		})
		if err := s.ensureFree(ctx, consultorio.ID, day, start, occupiedEnd); err != nil {
			return nil, err
		}
		committed, err = s.storePort.Insert(ctx, appointment)
		if errors.Is(err, domain.ErrSlotOccupied) {
			return nil, domain.ErrSlotOccupied
		}
	}
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	s.logger.Info("booking.booked", out.LogFields{
		"appointmentId": committed.ID,
		"consultorioId": consultorio.ID,
		"start":         start.Format("2006-01-02 15:04"),
		"minutes":       committed.DurationMinutes,
	})
	return committed, nil
}

func (s *BookingService) Cancel(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	appointment, err := s.storePort.MarkCanceled(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrAlreadyCanceled) {
			return nil, err
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.logger.Info("booking.canceled", out.LogFields{
		"appointmentId": appointmentID,
	})
	return appointment, nil
}

// ensureFree проверяет, что диапазон [start, end) не пересекает ни одну
// активную запись
func (s *BookingService) ensureFree(ctx context.Context, consultorioID uuid.UUID, day, start, end time.Time) error {
	appointments, err := s.storePort.ListActive(ctx, consultorioID, day)
	if err != nil {
		return fmt.Errorf("list appointments: %w", err)
	}
	for i := range appointments {
		if appointments[i].Overlaps(start, end) {
			return domain.ErrSlotOccupied
		}
	}
	return nil
}
