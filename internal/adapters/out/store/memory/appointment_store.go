package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/utils"
)

// AppointmentStore - хранилище записей в памяти для локального окружения
// и тестов. Семантика конфликтов та же, что у Postgres-адаптера:
// вставка с пересечением активной записи отклоняется под мьютексом
type AppointmentStore struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]domain.Appointment
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{
		appointments: make(map[uuid.UUID]domain.Appointment),
	}
}

func (s *AppointmentStore) ListActive(ctx context.Context, consultorioID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	dayStart := utils.StartOfDay(day)
	dayEnd := utils.StartNextDay(day)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Appointment
	for _, appt := range s.appointments {
		if appt.ConsultorioID != consultorioID || !appt.Active() {
			continue
		}
		if appt.Overlaps(dayStart, dayEnd) {
			result = append(result, appt)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Start.Date.Before(result[j].Start.Date)
	})
	return result, nil
}

func (s *AppointmentStore) Insert(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Проверка и вставка атомарны под мьютексом: аналог exclusion
	// constraint в Postgres
	for _, existing := range s.appointments {
		if existing.ConsultorioID != appointment.ConsultorioID || !existing.Active() {
			continue
		}
		if existing.Overlaps(appointment.Start.Date, appointment.End()) {
			return nil, domain.ErrSlotOccupied
		}
	}

	s.appointments[appointment.ID] = appointment
	committed := appointment
	return &committed, nil
}

// Replace перезаписывает запись без проверки пересечений: имитация внешнего
// писателя, который ходит в хранилище мимо движка
func (s *AppointmentStore) Replace(appointment domain.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[appointment.ID] = appointment
}

func (s *AppointmentStore) MarkCanceled(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, exists := s.appointments[appointmentID]
	if !exists {
		return nil, domain.ErrNotFound
	}
	if appt.Status == domain.AppointmentStatusCanceled {
		return nil, domain.ErrAlreadyCanceled
	}

	appt.Status = domain.AppointmentStatusCanceled
	appt.UpdatedAt = time.Now()
	s.appointments[appointmentID] = appt

	canceled := appt
	return &canceled, nil
}

func (s *AppointmentStore) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, exists := s.appointments[appointmentID]
	if !exists {
		return nil, domain.ErrNotFound
	}
	found := appt
	return &found, nil
}
