package in

import (
	"context"
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/google/uuid"
)

type BookingRequest struct {
	ConsultorioID   uuid.UUID
	Start           time.Time
	DurationMinutes int // 0 - применяется дефолт из конфигурации
	PatientRef      string
	PractitionerRef string
	Notes           string
}

// BookingUseCase - единственная точка создания и отмены записей
type BookingUseCase interface {
	Book(ctx context.Context, req BookingRequest) (*domain.Appointment, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error)
}
