package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aslima544/consultorio-slot-engine/internal/config"
	"github.com/aslima544/consultorio-slot-engine/internal/core/domain"
	"github.com/aslima544/consultorio-slot-engine/internal/core/ports/in"
	"github.com/aslima544/consultorio-slot-engine/internal/utils"
)

type BookingController struct {
	availability in.AvailabilityUseCase
	booking      in.BookingUseCase
	cfg          *config.Config
}

func NewBookingController(availability in.AvailabilityUseCase, booking in.BookingUseCase, cfg *config.Config) *BookingController {
	return &BookingController{
		availability: availability,
		booking:      booking,
		cfg:          cfg,
	}
}

func (c *BookingController) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/v1/health", c.health)

	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/consultorios", c.listConsultorios)
		api.GET("/consultorios/availability", c.dayOverview)
		api.GET("/consultorios/:consultorioId/slots", c.getSlots)
		api.POST("/appointments", c.book)
		api.POST("/appointments/:appointmentId/cancel", c.cancel)
	}
}

type BookAppointmentRequest struct {
	ConsultorioID   uuid.UUID `json:"consultorioId" binding:"required"`
	Start           string    `json:"start" binding:"required"`
	DurationMinutes int       `json:"durationMinutes"`
	PatientRef      string    `json:"patientRef" binding:"required"`
	PractitionerRef string    `json:"practitionerRef"`
	Notes           string    `json:"notes"`
}

func (c *BookingController) getSlots(ctx *gin.Context) {
	consultorioID, err := uuid.Parse(ctx.Param("consultorioId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consultorio ID format"})
		return
	}

	date, err := utils.ParseDate(ctx.Query("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	view, err := c.availability.GetAvailability(ctx.Request.Context(), consultorioID, date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, view)
}

func (c *BookingController) listConsultorios(ctx *gin.Context) {
	consultorios, err := c.availability.ListConsultorios(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"consultorios": consultorios})
}

func (c *BookingController) dayOverview(ctx *gin.Context) {
	date, err := utils.ParseDate(ctx.Query("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	overview, err := c.availability.DayOverview(ctx.Request.Context(), date)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"date":         date.Format("2006-01-02"),
		"consultorios": overview,
	})
}

func (c *BookingController) book(ctx *gin.Context) {
	var req BookAppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := utils.ParseDate(req.Start)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start format"})
		return
	}

	appointment, err := c.booking.Book(ctx.Request.Context(), in.BookingRequest{
		ConsultorioID:   req.ConsultorioID,
		Start:           start,
		DurationMinutes: req.DurationMinutes,
		PatientRef:      req.PatientRef,
		PractitionerRef: req.PractitionerRef,
		Notes:           req.Notes,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, appointment)
}

func (c *BookingController) cancel(ctx *gin.Context) {
	appointmentID, err := uuid.Parse(ctx.Param("appointmentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	appointment, err := c.booking.Cancel(ctx.Request.Context(), appointmentID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, appointment)
}

func (c *BookingController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": c.cfg.App.Version,
		"time":    time.Now().In(c.cfg.Location).Format(time.RFC3339),
	})
}

// Ошибки движка типизированы, мапим каждую на код и actionable сообщение
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"code": "not_found", "error": "Resource not found"})
	case errors.Is(err, domain.ErrSlotOccupied):
		ctx.JSON(http.StatusConflict, gin.H{"code": "slot_occupied", "error": "Slot is already taken"})
	case errors.Is(err, domain.ErrAlreadyCanceled):
		ctx.JSON(http.StatusConflict, gin.H{"code": "already_canceled", "error": "Appointment was already canceled"})
	case errors.Is(err, domain.ErrClosedDay):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"code": "closed_day", "error": "Consultorio is closed on this date"})
	case errors.Is(err, domain.ErrPastSlot):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"code": "past_slot", "error": "Requested time is in the past"})
	case errors.Is(err, domain.ErrMisaligned):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"code": "misaligned", "error": "Requested time does not fit the slot grid or operating hours"})
	case errors.Is(err, domain.ErrInvalidWindow):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"code": "invalid_window", "error": "Operating window configuration is invalid"})
	case errors.Is(err, context.DeadlineExceeded):
		// Не успели взять блокировку или достучаться до хранилища,
		// можно повторить
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"code": "retry", "error": "Temporarily unavailable, please retry"})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"code": "internal", "error": err.Error()})
	}
}

func (c *BookingController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			userOk := subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1
			passOk := subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1
			if userOk && passOk {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
