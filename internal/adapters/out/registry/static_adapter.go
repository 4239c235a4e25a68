package registry

import (
	"context"

	"github.com/google/uuid"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
)

// StaticAdapter - встроенный реестр для локального окружения, когда внешний
// реестр не настроен. Набор кабинетов повторяет типовую клинику
type StaticAdapter struct {
	consultorios []domain.Consultorio
	holidays     *domain.HolidayCalendar
}

func window(startHour, endHour int) *domain.OperatingWindow {
	return &domain.OperatingWindow{
		Start: json_types.NewClockTime(startHour, 0),
		End:   json_types.NewClockTime(endHour, 0),
	}
}

func NewStaticAdapter() *StaticAdapter {
	fixed := func(name, description string, startHour, endHour int) domain.Consultorio {
		return domain.Consultorio{
			ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte("consultorio/"+name)),
			Name:          name,
			Description:   description,
			Capacity:      2,
			OccupancyType: domain.OccupancyTypeFixed,
			FixedWindow:   window(startHour, endHour),
			Active:        true,
		}
	}

	rotative := func(name, description string, startHour, endHour int) domain.Consultorio {
		consultorio := fixed(name, description, startHour, endHour)
		consultorio.OccupancyType = domain.OccupancyTypeRotative
		return consultorio
	}

	return &StaticAdapter{
		consultorios: []domain.Consultorio{
			fixed("C1", "Consultório 1 - Estratégia Saúde da Família 1", 7, 16),
			fixed("C2", "Consultório 2 - Estratégia Saúde da Família 2", 7, 16),
			fixed("C3", "Consultório 3 - Estratégia Saúde da Família 3", 8, 17),
			fixed("C4", "Consultório 4 - Estratégia Saúde da Família 4", 10, 19),
			fixed("C5", "Consultório 5 - Estratégia Saúde da Família 5", 12, 21),
			rotative("C6", "Consultório 6 - Uso Rotativo (Especialistas)", 7, 19),
			rotative("C7", "Consultório 7 - Uso Rotativo (Médico Apoio)", 7, 19),
			rotative("C8", "Consultório 8 - Coringa (E-Multi/Apoio/Reserva)", 7, 19),
		},
		holidays: &domain.HolidayCalendar{},
	}
}

func (a *StaticAdapter) GetConsultorio(ctx context.Context, consultorioID uuid.UUID) (*domain.Consultorio, error) {
	for i := range a.consultorios {
		if a.consultorios[i].ID == consultorioID {
			consultorio := a.consultorios[i]
			return &consultorio, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (a *StaticAdapter) ListConsultorios(ctx context.Context) ([]domain.Consultorio, error) {
	return append([]domain.Consultorio(nil), a.consultorios...), nil
}

func (a *StaticAdapter) GetHolidayCalendar(ctx context.Context) (*domain.HolidayCalendar, error) {
	return a.holidays, nil
}
