package out

import (
	"context"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/google/uuid"
)

// CachePort кэширует только данные реестра. Слоты и availability view
// не кэшируются никогда
type CachePort interface {
	// Кэширование консульториев
	GetConsultorio(ctx context.Context, consultorioID uuid.UUID) (*domain.Consultorio, bool)
	StoreConsultorio(ctx context.Context, consultorio *domain.Consultorio)
	InvalidateConsultorio(ctx context.Context, consultorioID uuid.UUID)
	InvalidateAllConsultorios(ctx context.Context)

	// Кэширование производственного календаря
	GetHolidayCalendar(ctx context.Context) (*domain.HolidayCalendar, bool)
	StoreHolidayCalendar(ctx context.Context, calendar *domain.HolidayCalendar)
	InvalidateHolidayCalendar(ctx context.Context)
}
