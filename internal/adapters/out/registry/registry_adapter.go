package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/out"
)

// RegistryAdapter читает конфигурацию консульториев и производственный
// календарь из админского реестра по HTTP. Движок владеет только чтением,
// мутации конфигурации живут в админке
type RegistryAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   out.LoggerPort
}

func NewRegistryAdapter(cfg *config.Config, logger out.LoggerPort) *RegistryAdapter {
	return &RegistryAdapter{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  cfg.Registry.URL,
		username: cfg.Registry.Username,
		password: cfg.Registry.Password,
		logger:   logger,
	}
}

func (a *RegistryAdapter) GetConsultorio(ctx context.Context, consultorioID uuid.UUID) (*domain.Consultorio, error) {
	var consultorio domain.Consultorio
	url := fmt.Sprintf("%s/consultorios/%s", a.baseURL, consultorioID)
	if err := a.get(ctx, url, &consultorio); err != nil {
		a.logger.Error("registry.consultorio.fetch_failed", out.LogFields{
			"consultorioId": consultorioID,
			"error":         err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("registry.consultorio.fetch_success", out.LogFields{
		"consultorioId": consultorioID,
		"name":          consultorio.Name,
	})
	return &consultorio, nil
}

func (a *RegistryAdapter) ListConsultorios(ctx context.Context) ([]domain.Consultorio, error) {
	var consultorios []domain.Consultorio
	url := fmt.Sprintf("%s/consultorios", a.baseURL)
	if err := a.get(ctx, url, &consultorios); err != nil {
		a.logger.Error("registry.consultorios.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("registry.consultorios.fetch_success", out.LogFields{
		"count": len(consultorios),
	})
	return consultorios, nil
}

func (a *RegistryAdapter) GetHolidayCalendar(ctx context.Context) (*domain.HolidayCalendar, error) {
	var calendar domain.HolidayCalendar
	url := fmt.Sprintf("%s/holidays", a.baseURL)
	if err := a.get(ctx, url, &calendar); err != nil {
		a.logger.Error("registry.holidays.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	a.logger.Debug("registry.holidays.fetch_success", out.LogFields{
		"count": len(calendar.Dates),
	})
	return &calendar, nil
}

func (a *RegistryAdapter) get(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(a.username, a.password)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(target)
}
