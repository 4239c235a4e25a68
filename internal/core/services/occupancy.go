package services

import (
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/google/uuid"
)

type occupancyEntry struct {
	info      domain.OccupancyInfo
	claimants []uuid.UUID
}

// OccupancyMap - отображение начала слота на занимающую его запись
type OccupancyMap struct {
	entries map[int64]*occupancyEntry
}

// MapOccupancy помечает занятым каждый слот, чей полуоткрытый диапазон
// [t, t+g) пересекается с диапазоном активной записи. Запись длительностью d
// занимает ceil(d/g) последовательных слотов: частично накрытый слот
// тоже занят. Две активные записи на одном слоте - аномалия целостности,
// возвращается списком ConflictDetectedError, а не разрешается молча
func MapOccupancy(grid []time.Time, granularity time.Duration, appointments []domain.Appointment) (*OccupancyMap, []*domain.ConflictDetectedError) {
	m := &OccupancyMap{entries: make(map[int64]*occupancyEntry)}
	var conflicts []*domain.ConflictDetectedError

	for i := range appointments {
		appt := &appointments[i]
		if !appt.Active() {
			// Отменённые записи полностью исключаются из занятости
			continue
		}

		for _, slotStart := range grid {
			if !appt.Overlaps(slotStart, slotStart.Add(granularity)) {
				continue
			}

			key := slotStart.Unix()
			entry, taken := m.entries[key]
			if !taken {
				m.entries[key] = &occupancyEntry{
					info: domain.OccupancyInfo{
						AppointmentID:   appt.ID,
						PatientRef:      appt.PatientRef,
						PractitionerRef: appt.PractitionerRef,
						Status:          appt.Status,
						DurationMinutes: appt.DurationMinutes,
					},
					claimants: []uuid.UUID{appt.ID},
				}
				continue
			}

			// Первый претендент остаётся в info, конфликт наружу
			entry.claimants = append(entry.claimants, appt.ID)
			conflicts = append(conflicts, &domain.ConflictDetectedError{
				SlotStart:      slotStart,
				AppointmentIDs: append([]uuid.UUID(nil), entry.claimants...),
			})
		}
	}

	return m, conflicts
}

// Lookup возвращает занятость слота по его началу
func (m *OccupancyMap) Lookup(slotStart time.Time) (domain.OccupancyInfo, bool) {
	entry, ok := m.entries[slotStart.Unix()]
	if !ok {
		return domain.OccupancyInfo{}, false
	}
	return entry.info, true
}

// Conflicted сообщает, претендуют ли на слот несколько записей
func (m *OccupancyMap) Conflicted(slotStart time.Time) bool {
	entry, ok := m.entries[slotStart.Unix()]
	return ok && len(entry.claimants) > 1
}

// Elapsed - слот истёк, если его начало строго раньше now.
// Слот, начинающийся ровно в now, ещё бронируем
func Elapsed(slotStart, now time.Time) bool {
	return slotStart.Before(now)
}
