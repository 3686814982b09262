package assign_cleaner

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cleanhome/CH-BookingService/internal/api/handlers"
	"github.com/cleanhome/CH-BookingService/internal/service/bookings"
	"github.com/cleanhome/CH-BookingService/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректный ID клинера"
	msgBookingNotFound    = "бронирование не найдено"
	msgCleanerNotFound    = "клинер не найден"
	msgCleanerInactive    = "клинер неактивен"
	msgInvalidTransition  = "назначение возможно только для ожидающих бронирований"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{reference}/cleaner
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]

	var req models.AssignCleanerRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{reference}/cleaner - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.AssignCleaner(r.Context(), reference, &req); err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{reference}/cleaner - Invalid input: reference=%s, error=%v", reference, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{reference}/cleaner - Booking not found: reference=%s", reference)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrCleanerNotFound):
			h.logger.Warn("PATCH /bookings/{reference}/cleaner - Cleaner not found: reference=%s, cleaner_id=%d",
				reference, req.CleanerID)
			handlers.RespondNotFound(w, msgCleanerNotFound)

		case errors.Is(err, bookings.ErrCleanerInactive):
			h.logger.Warn("PATCH /bookings/{reference}/cleaner - Cleaner inactive: reference=%s, cleaner_id=%d",
				reference, req.CleanerID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgCleanerInactive)

		case errors.Is(err, bookings.ErrInvalidStatusTransition):
			h.logger.Warn("PATCH /bookings/{reference}/cleaner - Invalid transition: reference=%s", reference)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /bookings/{reference}/cleaner - Failed to assign: reference=%s, error=%v",
				reference, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{reference}/cleaner - Cleaner assigned successfully: reference=%s, cleaner_id=%d",
		reference, req.CleanerID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
