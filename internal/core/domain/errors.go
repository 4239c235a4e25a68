package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типизированные ошибки движка, отдаются вызывающему как есть,
// никогда не глотаются молча
var (
	ErrInvalidWindow   = errors.New("invalid operating window")
	ErrClosedDay       = errors.New("consultorio is closed on this date")
	ErrPastSlot        = errors.New("requested slot is in the past")
	ErrMisaligned      = errors.New("requested time does not fit the slot grid")
	ErrSlotOccupied    = errors.New("slot is already occupied")
	ErrNotFound        = errors.New("not found")
	ErrAlreadyCanceled = errors.New("appointment is already canceled")
)

// ConflictDetectedError - две активные записи претендуют на один слот.
// Это сигнал нарушения гарантии атомарности бронирования где-то выше,
// read path не падает, а помечает слот и логирует
type ConflictDetectedError struct {
	SlotStart      time.Time
	AppointmentIDs []uuid.UUID
}

func (e *ConflictDetectedError) Error() string {
	return fmt.Sprintf("conflict detected at %s between appointments %v",
		e.SlotStart.Format("2006-01-02 15:04"), e.AppointmentIDs)
}
