package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/out"
)

type holidayCalendarCache struct {
	calendar  *domain.HolidayCalendar
	timestamp time.Time
	ttl       time.Duration
}

// CacheAdapter кэширует данные реестра: консультории в LRU, производственный
// календарь одной записью с TTL. Инвалидация приходит от слушателя RabbitMQ
type CacheAdapter struct {
	consultorios *lru.Cache[uuid.UUID, *domain.Consultorio]
	holidays     holidayCalendarCache
	mu           sync.RWMutex
	logger       out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	consultorios, err := lru.New[uuid.UUID, *domain.Consultorio](cfg.Cache.ConsultoriosSize)
	if err != nil {
		logger.Error("cache.consultorios.init_failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.ConsultoriosSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		consultorios: consultorios,
		holidays:     holidayCalendarCache{ttl: cfg.Cache.HolidayTTL},
		logger:       logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetConsultorio(ctx context.Context, consultorioID uuid.UUID) (*domain.Consultorio, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	consultorio, exists := c.consultorios.Get(consultorioID)
	if !exists {
		c.logger.Debug("cache.consultorio.miss", out.LogFields{
			"consultorioId": consultorioID,
		})
		return nil, false
	}

	c.logger.Debug("cache.consultorio.hit", out.LogFields{
		"consultorioId": consultorioID,
	})
	return consultorio, true
}

func (c *CacheAdapter) StoreConsultorio(ctx context.Context, consultorio *domain.Consultorio) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consultorios.Add(consultorio.ID, consultorio)
}

func (c *CacheAdapter) InvalidateConsultorio(ctx context.Context, consultorioID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consultorios.Remove(consultorioID)
}

func (c *CacheAdapter) InvalidateAllConsultorios(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consultorios.Purge()
}

// Кэширование производственного календаря

func (c *CacheAdapter) GetHolidayCalendar(ctx context.Context) (*domain.HolidayCalendar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.holidays.calendar == nil || time.Since(c.holidays.timestamp) > c.holidays.ttl {
		return nil, false
	}

	return c.holidays.calendar, true
}

func (c *CacheAdapter) StoreHolidayCalendar(ctx context.Context, calendar *domain.HolidayCalendar) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.holidays.calendar = calendar
	c.holidays.timestamp = time.Now()
}

func (c *CacheAdapter) InvalidateHolidayCalendar(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.holidays.calendar = nil
	c.holidays.timestamp = time.Time{}
}
