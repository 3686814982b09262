package models

import (
	"errors"
	"time"

	"github.com/cleanhome/CH-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelledBy,omitempty"` // по умолчанию "system"
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	Status    string  `json:"status"`
	ChangedBy string  `json:"changedBy,omitempty"` // по умолчанию "system"
	Note      *string `json:"note,omitempty"`
}

// AssignCleanerRequest запрос на назначение клинера
type AssignCleanerRequest struct {
	CleanerID  int64  `json:"cleanerId"`
	AssignedBy string `json:"assignedBy,omitempty"` // по умолчанию "system"
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	Reference       string `json:"reference"`
	CustomerID      int64  `json:"customerId"`
	ServiceID       int64  `json:"serviceId"`
	AddressID       int64  `json:"addressId"`
	ScheduledDate   string `json:"scheduledDate"` // "2025-10-15"
	StartTime       string `json:"startTime"`     // "10:00"
	DurationMinutes int    `json:"durationMinutes"`
	TimeBand        string `json:"timeBand"`
	Bedrooms        int    `json:"bedrooms"`
	Bathrooms       int    `json:"bathrooms"`
	Status          string `json:"status"`

	// Денежные суммы сериализуются строками, чтобы не терять точность
	BedroomSubtotal  string `json:"bedroomSubtotal"`
	BathroomSubtotal string `json:"bathroomSubtotal"`
	Subtotal         string `json:"subtotal"`
	TaxAmount        string `json:"taxAmount"`
	TotalAmount      string `json:"totalAmount"`

	AssignedCleanerID   *int64  `json:"assignedCleanerId,omitempty"`
	SpecialInstructions *string `json:"specialInstructions,omitempty"`
	CancellationReason  *string `json:"cancellationReason,omitempty"`

	ConfirmedAt *string `json:"confirmedAt,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty"`
	CancelledAt *string `json:"cancelledAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// BookingDetailsResponse бронирование вместе с историей статусов
type BookingDetailsResponse struct {
	Booking *BookingResponse              `json:"booking"`
	History []*StatusHistoryEntryResponse `json:"history"`
}

// StatusHistoryEntryResponse одна запись истории статусов
type StatusHistoryEntryResponse struct {
	FromStatus *string `json:"fromStatus"`
	ToStatus   string  `json:"toStatus"`
	ChangedBy  string  `json:"changedBy"`
	Note       *string `json:"note,omitempty"`
	CreatedAt  string  `json:"createdAt"`
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	status, ok := domain.ParseBookingStatus(s)
	if !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// FromDomainBooking конвертирует доменную модель в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:                  b.ID,
		Reference:           b.Reference,
		CustomerID:          b.CustomerID,
		ServiceID:           b.ServiceID,
		AddressID:           b.AddressID,
		ScheduledDate:       b.ScheduledDate.Format(domain.DateFormat),
		StartTime:           b.StartTime.String(),
		DurationMinutes:     b.DurationMinutes,
		TimeBand:            string(b.TimeBand),
		Bedrooms:            b.Bedrooms,
		Bathrooms:           b.Bathrooms,
		Status:              string(b.Status),
		BedroomSubtotal:     b.BedroomSubtotal.StringFixed(2),
		BathroomSubtotal:    b.BathroomSubtotal.StringFixed(2),
		Subtotal:            b.Subtotal.StringFixed(2),
		TaxAmount:           b.TaxAmount.StringFixed(2),
		TotalAmount:         b.TotalAmount.StringFixed(2),
		AssignedCleanerID:   b.AssignedCleanerID,
		SpecialInstructions: b.SpecialInstructions,
		CancellationReason:  b.CancellationReason,
		CreatedAt:           b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           b.UpdatedAt.Format(time.RFC3339),
	}

	if b.ConfirmedAt != nil {
		s := b.ConfirmedAt.Format(time.RFC3339)
		resp.ConfirmedAt = &s
	}
	if b.CompletedAt != nil {
		s := b.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	if b.CancelledAt != nil {
		s := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &s
	}

	return resp
}

// FromDomainHistory конвертирует записи истории в response
func FromDomainHistory(entries []*domain.StatusHistoryEntry) []*StatusHistoryEntryResponse {
	result := make([]*StatusHistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		item := &StatusHistoryEntryResponse{
			ToStatus:  string(e.ToStatus),
			ChangedBy: e.ChangedBy,
			Note:      e.Note,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
		if e.FromStatus != nil {
			s := string(*e.FromStatus)
			item.FromStatus = &s
		}
		result = append(result, item)
	}
	return result
}
