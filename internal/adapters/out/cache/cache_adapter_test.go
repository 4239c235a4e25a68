package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/json_types"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/out"
)

type nopLogger struct{}

func (l nopLogger) Debug(event string, fields out.LogFields)       {}
func (l nopLogger) Info(event string, fields out.LogFields)        {}
func (l nopLogger) Warn(event string, fields out.LogFields)        {}
func (l nopLogger) Error(event string, fields out.LogFields)       {}
func (l nopLogger) WithFields(fields out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(module string) out.LoggerPort        { return l }

func testCacheConfig(holidayTTL time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.ConsultoriosSize = 4
	cfg.Cache.HolidayTTL = holidayTTL
	return cfg
}

func TestCacheAdapter_Disabled(t *testing.T) {
	cfg := &config.Config{}
	adapter, err := NewCacheAdapter(cfg, nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adapter != nil {
		t.Fatal("disabled cache must yield a nil adapter")
	}
}

func TestCacheAdapter_Consultorios(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewCacheAdapter(testCacheConfig(time.Hour), nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	consultorio := &domain.Consultorio{
		ID:     uuid.New(),
		Name:   "Consultorio 1",
		Active: true,
	}

	if _, hit := adapter.GetConsultorio(ctx, consultorio.ID); hit {
		t.Fatal("empty cache must miss")
	}

	adapter.StoreConsultorio(ctx, consultorio)
	got, hit := adapter.GetConsultorio(ctx, consultorio.ID)
	if !hit || got.ID != consultorio.ID {
		t.Fatal("stored consultorio must hit")
	}

	adapter.InvalidateConsultorio(ctx, consultorio.ID)
	if _, hit := adapter.GetConsultorio(ctx, consultorio.ID); hit {
		t.Fatal("invalidated consultorio must miss")
	}

	adapter.StoreConsultorio(ctx, consultorio)
	adapter.InvalidateAllConsultorios(ctx)
	if _, hit := adapter.GetConsultorio(ctx, consultorio.ID); hit {
		t.Fatal("purged cache must miss")
	}
}

func TestCacheAdapter_ConsultoriosLruEviction(t *testing.T) {
	ctx := context.Background()
	adapter, err := NewCacheAdapter(testCacheConfig(time.Hour), nopLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := &domain.Consultorio{ID: uuid.New(), Name: "Consultorio 1"}
	adapter.StoreConsultorio(ctx, first)
	// Размер кэша в тестовом конфиге 4: пятый консульторий вытесняет первый
	for i := 0; i < 4; i++ {
		adapter.StoreConsultorio(ctx, &domain.Consultorio{ID: uuid.New()})
	}

	if _, hit := adapter.GetConsultorio(ctx, first.ID); hit {
		t.Fatal("oldest entry must be evicted past capacity")
	}
}

func TestCacheAdapter_HolidayCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run("store hit invalidate", func(t *testing.T) {
		adapter, err := NewCacheAdapter(testCacheConfig(time.Hour), nopLogger{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, hit := adapter.GetHolidayCalendar(ctx); hit {
			t.Fatal("empty calendar cache must miss")
		}

		calendar := &domain.HolidayCalendar{
			Dates: []json_types.Date{{Date: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)}},
		}
		adapter.StoreHolidayCalendar(ctx, calendar)
		got, hit := adapter.GetHolidayCalendar(ctx)
		if !hit || len(got.Dates) != 1 {
			t.Fatal("stored calendar must hit")
		}

		adapter.InvalidateHolidayCalendar(ctx)
		if _, hit := adapter.GetHolidayCalendar(ctx); hit {
			t.Fatal("invalidated calendar must miss")
		}
	})

	t.Run("expires after ttl", func(t *testing.T) {
		adapter, err := NewCacheAdapter(testCacheConfig(10*time.Millisecond), nopLogger{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		adapter.StoreHolidayCalendar(ctx, &domain.HolidayCalendar{})
		time.Sleep(20 * time.Millisecond)

		if _, hit := adapter.GetHolidayCalendar(ctx); hit {
			t.Fatal("calendar past ttl must miss")
		}
	})
}
