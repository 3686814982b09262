package get_services

import (
	"net/http"

	"github.com/cleanhome/CH-BookingService/internal/api/handlers"
	"github.com/cleanhome/CH-BookingService/internal/domain"
)

type Handler struct {
	catalog CatalogRepository
	logger  Logger
}

func NewHandler(catalog CatalogRepository, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// ServiceResponse HTTP модель услуги из каталога
type ServiceResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	Tier            string  `json:"tier"`
	DurationMinutes int     `json:"durationMinutes"`
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListActive(r.Context())
	if err != nil {
		h.logger.Error("GET /services - Failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	response := make([]*ServiceResponse, 0, len(services))
	for _, s := range services {
		response = append(response, fromDomain(s))
	}

	h.logger.Info("GET /services - Listed %d active services", len(response))
	handlers.RespondJSON(w, http.StatusOK, response)
}

func fromDomain(s *domain.CleaningService) *ServiceResponse {
	return &ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Tier:            string(s.Tier),
		DurationMinutes: s.DurationMinutes,
	}
}
