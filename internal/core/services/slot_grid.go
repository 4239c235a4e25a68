package services

import (
	"time"

	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
)

// GenerateGrid строит упорядоченную последовательность начал слотов:
// start, start+g, start+2g, ... строго меньше end.
// Детерминирована, без побочных эффектов
func GenerateGrid(start, end time.Time, granularity time.Duration) ([]time.Time, error) {
	if granularity <= 0 || !start.Before(end) {
		return nil, domain.ErrInvalidWindow
	}

	var starts []time.Time
	for t := start; t.Before(end); t = t.Add(granularity) {
		starts = append(starts, t)
	}
	return starts, nil
}

// AlignedToGrid проверяет, что момент попадает точно на границу сетки,
// начинающейся в start
func AlignedToGrid(t, start time.Time, granularity time.Duration) bool {
	if granularity <= 0 || t.Before(start) {
		return false
	}
	return t.Sub(start)%granularity == 0
}

// occupiedSpan округляет длительность вверх до целого числа слотов:
// частично накрытый слот занят целиком
func occupiedSpan(duration, granularity time.Duration) time.Duration {
	slots := (duration + granularity - 1) / granularity
	return slots * granularity
}
