package create_booking

import (
	"errors"
	"net/http"

	"github.com/cleanhome/CH-BookingService/internal/api/handlers"
	"github.com/cleanhome/CH-BookingService/internal/availability"
	"github.com/cleanhome/CH-BookingService/internal/schedule"
	createBooking "github.com/cleanhome/CH-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "некорректные данные запроса"
	msgMalformedSchedule    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgTooSoon              = "дата уборки слишком близко, бронирование возможно минимум за сутки"
	msgTooFar               = "дата уборки слишком далеко в будущем"
	msgOutsideBusinessHours = "время вне рабочих часов"
	msgInvalidGranularity   = "время должно быть кратно 30 минутам"
	msgServiceNotFound      = "услуга не найдена"
	msgServiceInactive      = "услуга недоступна для заказа"
	msgSlotUnavailable      = "выбранный временной слот занят"
	msgNoCleanerAvailable   = "нет свободных клинеров на выбранное время"
	msgOperationTimedOut    = "превышено время обработки запроса, попробуйте снова"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, schedule.ErrMalformedInput):
			h.logger.Warn("POST /bookings - Malformed schedule input: date=%s, time=%s", req.ScheduledDate, req.StartTime)
			handlers.RespondBadRequest(w, msgMalformedSchedule)

		case errors.Is(err, schedule.ErrTooSoon):
			h.logger.Warn("POST /bookings - Date too soon: date=%s", req.ScheduledDate)
			handlers.RespondBadRequest(w, msgTooSoon)

		case errors.Is(err, schedule.ErrTooFar):
			h.logger.Warn("POST /bookings - Date too far: date=%s", req.ScheduledDate)
			handlers.RespondBadRequest(w, msgTooFar)

		case errors.Is(err, schedule.ErrOutsideBusinessHours):
			h.logger.Warn("POST /bookings - Outside business hours: time=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgOutsideBusinessHours)

		case errors.Is(err, schedule.ErrInvalidGranularity):
			h.logger.Warn("POST /bookings - Invalid granularity: time=%s", req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidGranularity)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrServiceInactive):
			h.logger.Warn("POST /bookings - Service inactive: service_id=%d", req.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgServiceInactive)

		case errors.Is(err, availability.ErrSlotUnavailable):
			h.logger.Warn("POST /bookings - Slot unavailable: date=%s, time=%s", req.ScheduledDate, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgSlotUnavailable)

		case errors.Is(err, availability.ErrNoCleanerAvailable):
			h.logger.Warn("POST /bookings - No cleaner available: date=%s, time=%s", req.ScheduledDate, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgNoCleanerAvailable)

		case errors.Is(err, createBooking.ErrOperationTimedOut):
			h.logger.Error("POST /bookings - Operation timed out: date=%s, time=%s", req.ScheduledDate, req.StartTime)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgOperationTimedOut)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: email=%s, error=%v", req.Customer.Email, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: reference=%s", result.Reference)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
