package in

import (
	"context"
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/google/uuid"
)

type AvailabilityUseCase interface {
	// Построение сетки слотов консультория на дату
	GetAvailability(ctx context.Context, consultorioID uuid.UUID, date time.Time) (*domain.AvailabilityView, error)

	// Список активных консульториев из реестра
	ListConsultorios(ctx context.Context) ([]domain.Consultorio, error)

	// Сводка по окнам работы всех консульториев на дату
	DayOverview(ctx context.Context, date time.Time) ([]domain.DayAvailability, error)
}

// RegistryRefreshUseCase - инвалидация кэша реестра при изменениях
// конфигурации во внешней админке
type RegistryRefreshUseCase interface {
	InvalidateConsultorio(ctx context.Context, consultorioID uuid.UUID)
	InvalidateAllConsultorios(ctx context.Context)
	InvalidateHolidayCalendar(ctx context.Context)
}
