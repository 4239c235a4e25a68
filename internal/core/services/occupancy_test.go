package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
)

func testAppointment(start time.Time, minutes int, status domain.AppointmentStatus) domain.Appointment {
	return domain.Appointment{
		ID:              uuid.New(),
		ConsultorioID:   testConsultorio().ID,
		Start:           json_types.DateTime{Date: start},
		DurationMinutes: minutes,
		Status:          status,
		PatientRef:      "patient/1",
	}
}

func TestMapOccupancy(t *testing.T) {
	g := 15 * time.Minute
	grid, err := GenerateGrid(at(8, 0), at(12, 0), g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("duration occupies ceil of slots", func(t *testing.T) {
		// 40 минут с 08:30 накрывают три слота: 08:30, 08:45 и частично 09:00
		appt := testAppointment(at(8, 30), 40, domain.AppointmentStatusScheduled)
		occupancy, conflicts := MapOccupancy(grid, g, []domain.Appointment{appt})
		if len(conflicts) != 0 {
			t.Fatalf("unexpected conflicts: %v", conflicts)
		}

		occupied := []time.Time{at(8, 30), at(8, 45), at(9, 0)}
		for _, slot := range occupied {
			info, ok := occupancy.Lookup(slot)
			if !ok {
				t.Errorf("slot %v should be occupied", slot)
				continue
			}
			if info.AppointmentID != appt.ID {
				t.Errorf("slot %v occupied by wrong appointment", slot)
			}
		}
		for _, slot := range []time.Time{at(8, 15), at(9, 15)} {
			if _, ok := occupancy.Lookup(slot); ok {
				t.Errorf("slot %v should be free", slot)
			}
		}
	})

	t.Run("exact fit occupies exactly its slots", func(t *testing.T) {
		appt := testAppointment(at(10, 0), 30, domain.AppointmentStatusScheduled)
		occupancy, _ := MapOccupancy(grid, g, []domain.Appointment{appt})

		if _, ok := occupancy.Lookup(at(10, 0)); !ok {
			t.Error("slot 10:00 should be occupied")
		}
		if _, ok := occupancy.Lookup(at(10, 15)); !ok {
			t.Error("slot 10:15 should be occupied")
		}
		// Полуоткрытый интервал: запись до 10:30 не трогает слот 10:30
		if _, ok := occupancy.Lookup(at(10, 30)); ok {
			t.Error("slot 10:30 should be free")
		}
	})

	t.Run("canceled appointments are excluded", func(t *testing.T) {
		appt := testAppointment(at(9, 0), 60, domain.AppointmentStatusCanceled)
		occupancy, conflicts := MapOccupancy(grid, g, []domain.Appointment{appt})
		if len(conflicts) != 0 {
			t.Fatalf("unexpected conflicts: %v", conflicts)
		}
		for _, slot := range grid {
			if _, ok := occupancy.Lookup(slot); ok {
				t.Fatalf("slot %v should be free after cancellation", slot)
			}
		}
	})

	t.Run("two active appointments on one slot are reported", func(t *testing.T) {
		first := testAppointment(at(9, 0), 30, domain.AppointmentStatusScheduled)
		second := testAppointment(at(9, 15), 30, domain.AppointmentStatusScheduled)

		occupancy, conflicts := MapOccupancy(grid, g, []domain.Appointment{first, second})
		if len(conflicts) != 1 {
			t.Fatalf("expected 1 conflict, got %d", len(conflicts))
		}
		if !conflicts[0].SlotStart.Equal(at(9, 15)) {
			t.Errorf("conflict should be at 09:15, got %v", conflicts[0].SlotStart)
		}
		if len(conflicts[0].AppointmentIDs) != 2 {
			t.Errorf("conflict should name both appointments, got %v", conflicts[0].AppointmentIDs)
		}

		// Первый претендент остаётся владельцем слота
		info, ok := occupancy.Lookup(at(9, 15))
		if !ok || info.AppointmentID != first.ID {
			t.Errorf("slot 09:15 should stay with the first claimant")
		}
		if !occupancy.Conflicted(at(9, 15)) {
			t.Error("slot 09:15 should be flagged as conflicted")
		}
		if occupancy.Conflicted(at(9, 0)) {
			t.Error("slot 09:00 has one claimant, must not be flagged")
		}
	})
}

func TestElapsed(t *testing.T) {
	now := at(9, 0)

	if !Elapsed(at(8, 45), now) {
		t.Error("slot before now should be elapsed")
	}
	// Слот, начинающийся ровно в now, ещё бронируем
	if Elapsed(at(9, 0), now) {
		t.Error("slot starting exactly at now must not be elapsed")
	}
	if Elapsed(at(9, 15), now) {
		t.Error("future slot must not be elapsed")
	}
}
