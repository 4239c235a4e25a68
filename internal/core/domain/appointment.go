package domain

import (
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
)

// Appointment - запись на приём. Отменённые записи не удаляются физически,
// остаются для аудита и исключаются из занятости
type Appointment struct {
	ID              uuid.UUID           `json:"id"`
	ConsultorioID   uuid.UUID           `json:"consultorioId"`
	Start           json_types.DateTime `json:"start"`
	DurationMinutes int                 `json:"durationMinutes"`
	Status          AppointmentStatus   `json:"status"`
	PatientRef      string              `json:"patientRef"`
	PractitionerRef string              `json:"practitionerRef,omitempty"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// End - исключающий конец занятого диапазона [Start, End)
func (a *Appointment) End() time.Time {
	return a.Start.Date.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

func (a *Appointment) Active() bool {
	return a.Status != AppointmentStatusCanceled
}

// Overlaps - пересечение полуоткрытых интервалов:
// [Start, End) и [start, end) пересекаются <=> Start < end && start < End
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.Start.Date.Before(end) && start.Before(a.End())
}
