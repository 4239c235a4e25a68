// Package postgres - адаптер хранилища записей поверх PostgreSQL.
//
// Ожидаемая схема:
//
//	CREATE EXTENSION IF NOT EXISTS btree_gist;
//
//	CREATE TABLE appointments (
//	    id               uuid PRIMARY KEY,
//	    consultorio_id   uuid NOT NULL,
//	    start_time       timestamptz NOT NULL,
//	    duration_minutes int NOT NULL CHECK (duration_minutes > 0),
//	    status           text NOT NULL DEFAULT 'scheduled',
//	    patient_ref      text NOT NULL,
//	    practitioner_ref text NOT NULL DEFAULT '',
//	    notes            text NOT NULL DEFAULT '',
//	    created_at       timestamptz NOT NULL DEFAULT now(),
//	    updated_at       timestamptz NOT NULL DEFAULT now(),
//	    CONSTRAINT appointments_no_overlap EXCLUDE USING gist (
//	        consultorio_id WITH =,
//	        tstzrange(start_time, start_time + make_interval(mins => duration_minutes)) WITH &&
//	    ) WHERE (status = 'scheduled')
//	);
//
// Exclusion constraint дублирует проверку занятости движка на уровне БД:
// даже при конкурирующем внешнем писателе два пересекающихся scheduled
// не закоммитятся
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/out"
	"github.com/aslima544/consultorio-slot-engine/internal/utils"
)

type AppointmentRepository struct {
	pool   *pgxpool.Pool
	logger out.LoggerPort
}

func NewAppointmentRepository(ctx context.Context, databaseURL string, logger out.LoggerPort) (*AppointmentRepository, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &AppointmentRepository{
		pool:   pool,
		logger: logger.WithModule("AppointmentRepository"),
	}, nil
}

func (r *AppointmentRepository) Close() {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
}

const appointmentColumns = `
	id, consultorio_id, start_time, duration_minutes, status,
	patient_ref, practitioner_ref, notes, created_at, updated_at`

func (r *AppointmentRepository) ListActive(ctx context.Context, consultorioID uuid.UUID, day time.Time) ([]domain.Appointment, error) {
	dayStart := utils.StartOfDay(day)
	dayEnd := utils.StartNextDay(day)

	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE consultorio_id = $1
			AND status = 'scheduled'
			AND start_time < $3
			AND start_time + make_interval(mins => duration_minutes) > $2
		ORDER BY start_time ASC
	`, consultorioID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appt)
	}
	return appointments, rows.Err()
}

func (r *AppointmentRepository) Insert(ctx context.Context, appointment domain.Appointment) (*domain.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments
			(id, consultorio_id, start_time, duration_minutes, status,
			 patient_ref, practitioner_ref, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+appointmentColumns,
		appointment.ID,
		appointment.ConsultorioID,
		appointment.Start.Date,
		appointment.DurationMinutes,
		appointment.Status,
		appointment.PatientRef,
		appointment.PractitionerRef,
		appointment.Notes,
	)

	committed, err := scanAppointment(row)
	if err != nil {
		if isOverlapViolation(err) {
			r.logger.Warn("store.insert.overlap_rejected", out.LogFields{
				"appointmentId": appointment.ID,
				"consultorioId": appointment.ConsultorioID,
			})
			return nil, domain.ErrSlotOccupied
		}
		return nil, err
	}
	return &committed, nil
}

func (r *AppointmentRepository) MarkCanceled(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status domain.AppointmentStatus
	err = tx.QueryRow(ctx, `
		SELECT status FROM appointments WHERE id = $1 FOR UPDATE
	`, appointmentID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if status == domain.AppointmentStatusCanceled {
		return nil, domain.ErrAlreadyCanceled
	}

	row := tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'canceled', updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns,
		appointmentID,
	)
	canceled, err := scanAppointment(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &canceled, nil
}

func (r *AppointmentRepository) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*domain.Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, appointmentID)

	appt, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &appt, nil
}

func scanAppointment(row pgx.Row) (domain.Appointment, error) {
	var appt domain.Appointment
	var start time.Time
	err := row.Scan(
		&appt.ID,
		&appt.ConsultorioID,
		&start,
		&appt.DurationMinutes,
		&appt.Status,
		&appt.PatientRef,
		&appt.PractitionerRef,
		&appt.Notes,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return domain.Appointment{}, err
	}
	appt.Start = json_types.DateTime{Date: start.In(json_types.Location())}
	return appt, nil
}

// 23P01 - exclusion_violation, 23505 - unique_violation
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "23P01" || pgErr.Code == "23505")
}
