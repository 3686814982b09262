package create_booking

import (
	"time"

	"github.com/cleanhome/CH-BookingService/internal/domain"
	createBooking "github.com/cleanhome/CH-BookingService/internal/usecase/create_booking"
)

// CustomerPayload данные клиента в HTTP запросе
type CustomerPayload struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// AddressPayload адрес уборки в HTTP запросе
type AddressPayload struct {
	StreetAddress string  `json:"streetAddress"`
	ApartmentUnit *string `json:"apartmentUnit,omitempty"`
	City          string  `json:"city"`
	StateProvince string  `json:"stateProvince"`
	PostalCode    string  `json:"postalCode"`
	Country       string  `json:"country,omitempty"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Customer            CustomerPayload `json:"customer"`
	Address             AddressPayload  `json:"address"`
	ServiceID           int64           `json:"serviceId"`
	ScheduledDate       string          `json:"scheduledDate"` // "2025-10-15"
	StartTime           string          `json:"startTime"`     // "10:00"
	Bedrooms            int             `json:"bedrooms"`
	Bathrooms           int             `json:"bathrooms"`
	SpecialInstructions *string         `json:"specialInstructions,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64  `json:"id"`
	Reference       string `json:"reference"`
	CustomerID      int64  `json:"customerId"`
	ServiceID       int64  `json:"serviceId"`
	AddressID       int64  `json:"addressId"`
	ScheduledDate   string `json:"scheduledDate"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	TimeBand        string `json:"timeBand"`
	Bedrooms        int    `json:"bedrooms"`
	Bathrooms       int    `json:"bathrooms"`
	Status          string `json:"status"`

	BedroomSubtotal  string `json:"bedroomSubtotal"`
	BathroomSubtotal string `json:"bathroomSubtotal"`
	Subtotal         string `json:"subtotal"`
	TaxAmount        string `json:"taxAmount"`
	TotalAmount      string `json:"totalAmount"`

	SpecialInstructions *string `json:"specialInstructions,omitempty"`
	CreatedAt           string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() *createBooking.Request {
	return &createBooking.Request{
		Customer: createBooking.CustomerInput{
			Email:     r.Customer.Email,
			FirstName: r.Customer.FirstName,
			LastName:  r.Customer.LastName,
			Phone:     r.Customer.Phone,
		},
		Address: createBooking.AddressInput{
			StreetAddress: r.Address.StreetAddress,
			ApartmentUnit: r.Address.ApartmentUnit,
			City:          r.Address.City,
			StateProvince: r.Address.StateProvince,
			PostalCode:    r.Address.PostalCode,
			Country:       r.Address.Country,
		},
		ServiceID:           r.ServiceID,
		Date:                r.ScheduledDate,
		StartTime:           r.StartTime,
		Bedrooms:            r.Bedrooms,
		Bathrooms:           r.Bathrooms,
		SpecialInstructions: r.SpecialInstructions,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:                  resp.ID,
		Reference:           resp.Reference,
		CustomerID:          resp.CustomerID,
		ServiceID:           resp.ServiceID,
		AddressID:           resp.AddressID,
		ScheduledDate:       resp.ScheduledDate.Format(domain.DateFormat),
		StartTime:           resp.StartTime.String(),
		DurationMinutes:     resp.DurationMinutes,
		TimeBand:            resp.TimeBand,
		Bedrooms:            resp.Bedrooms,
		Bathrooms:           resp.Bathrooms,
		Status:              resp.Status,
		BedroomSubtotal:     resp.BedroomSubtotal.StringFixed(2),
		BathroomSubtotal:    resp.BathroomSubtotal.StringFixed(2),
		Subtotal:            resp.Subtotal.StringFixed(2),
		TaxAmount:           resp.TaxAmount.StringFixed(2),
		TotalAmount:         resp.TotalAmount.StringFixed(2),
		SpecialInstructions: resp.SpecialInstructions,
		CreatedAt:           resp.CreatedAt.Format(time.RFC3339),
	}
}
