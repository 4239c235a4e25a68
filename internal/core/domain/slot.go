package domain

import (
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusOccupied  SlotStatus = "occupied"
	SlotStatusElapsed   SlotStatus = "elapsed"
)

// OccupancyInfo описывает запись, занимающую слот
type OccupancyInfo struct {
	AppointmentID   uuid.UUID         `json:"appointmentId"`
	PatientRef      string            `json:"patientRef"`
	PractitionerRef string            `json:"practitionerRef,omitempty"`
	Status          AppointmentStatus `json:"status"`
	DurationMinutes int               `json:"durationMinutes"`
}

// Slot - производное, эфемерное значение, никогда не персистится
type Slot struct {
	Start     time.Time      `json:"start"`
	End       time.Time      `json:"end"`
	Status    SlotStatus     `json:"status"`
	Occupancy *OccupancyInfo `json:"occupancy,omitempty"`
	// Conflict помечает слот, на который претендуют две активные записи
	Conflict bool `json:"conflict,omitempty"`
}

func (s *Slot) Available() bool {
	return s.Status == SlotStatusAvailable
}

type ClosureReason string

const (
	ClosureReasonHoliday ClosureReason = "holiday"
	ClosureReasonWeekend ClosureReason = "weekend"
)

// AvailabilityView - упорядоченная по времени картина слотов для пары
// (консульторий, дата). Пересчитывается на каждый запрос, не кэшируется:
// устаревший view вернул бы риск двойного бронирования
type AvailabilityView struct {
	ConsultorioID   uuid.UUID       `json:"consultorioId"`
	ConsultorioName string          `json:"consultorioName"`
	Date            json_types.Date `json:"date"`
	Open            bool            `json:"open"`
	ClosureReason   ClosureReason   `json:"closureReason,omitempty"`
	Slots           []Slot          `json:"slots"`
}

// OccupiedCount - количество занятых слотов, используется дашбордом
func (v *AvailabilityView) OccupiedCount() int {
	count := 0
	for i := range v.Slots {
		if v.Slots[i].Status == SlotStatusOccupied {
			count++
		}
	}
	return count
}

// DayAvailability - сводка по окну работы консультория на дату
type DayAvailability struct {
	ConsultorioID uuid.UUID        `json:"consultorioId"`
	Name          string           `json:"name"`
	Open          bool             `json:"open"`
	ClosureReason ClosureReason    `json:"closureReason,omitempty"`
	Window        *OperatingWindow `json:"window,omitempty"`
}
