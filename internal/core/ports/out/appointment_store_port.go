package out

import (
	"context"
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/google/uuid"
)

// AppointmentStorePort - хранилище записей на приём, внешний коллаборатор
// движка. Реализация обязана обеспечивать атомарность вставки
type AppointmentStorePort interface {
	// ListActive возвращает неотменённые записи консультория, пересекающие
	// календарный день, упорядоченные по времени начала
	ListActive(ctx context.Context, consultorioID uuid.UUID, day time.Time) ([]domain.Appointment, error)

	// Insert коммитит новую запись. Вставка, пересекающая активную запись
	// того же консультория, отклоняется с domain.ErrSlotOccupied
	Insert(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error)

	// MarkCanceled переводит запись в статус canceled.
	// domain.ErrNotFound - записи нет, domain.ErrAlreadyCanceled - повторная
	// отмена, статус при этом не меняется
	MarkCanceled(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error)

	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error)
}
