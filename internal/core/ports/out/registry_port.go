package out

import (
	"context"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/google/uuid"
)

// RegistryPort - read-only источник конфигурации: консультории и
// производственный календарь
type RegistryPort interface {
	GetConsultorio(ctx context.Context, consultorioID uuid.UUID) (*domain.Consultorio, error)
	ListConsultorios(ctx context.Context) ([]domain.Consultorio, error)
	GetHolidayCalendar(ctx context.Context) (*domain.HolidayCalendar, error)
}
