package create_booking

import (
	"fmt"
	"strings"

	"github.com/cleanhome/CH-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, minBedrooms, minBathrooms int) error {
	if err := validateCustomer(&req.Customer); err != nil {
		return err
	}

	if err := validateAddress(&req.Address); err != nil {
		return err
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime == "" {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.Bedrooms < minBedrooms {
		return fmt.Errorf("%w: bedrooms must be at least %d", ErrInvalidInput, minBedrooms)
	}

	if req.Bathrooms < minBathrooms {
		return fmt.Errorf("%w: bathrooms must be at least %d", ErrInvalidInput, minBathrooms)
	}

	if req.SpecialInstructions != nil && len(*req.SpecialInstructions) > domain.MaxSpecialInstructionsLength {
		return fmt.Errorf("%w: specialInstructions must not exceed %d characters",
			ErrInvalidInput, domain.MaxSpecialInstructionsLength)
	}

	return nil
}

// validateCustomer проверяет обязательные поля клиента
func validateCustomer(c *CustomerInput) error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return fmt.Errorf("%w: customer email is required", ErrInvalidInput)
	}

	// Минимальная проверка формата, полная валидация выполняется на уровне API
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: customer email is malformed", ErrInvalidInput)
	}

	if strings.TrimSpace(c.FirstName) == "" {
		return fmt.Errorf("%w: customer firstName is required", ErrInvalidInput)
	}

	if strings.TrimSpace(c.LastName) == "" {
		return fmt.Errorf("%w: customer lastName is required", ErrInvalidInput)
	}

	return nil
}

// validateAddress проверяет обязательные поля адреса
func validateAddress(a *AddressInput) error {
	if strings.TrimSpace(a.StreetAddress) == "" {
		return fmt.Errorf("%w: streetAddress is required", ErrInvalidInput)
	}

	if strings.TrimSpace(a.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}

	if strings.TrimSpace(a.StateProvince) == "" {
		return fmt.Errorf("%w: stateProvince is required", ErrInvalidInput)
	}

	if strings.TrimSpace(a.PostalCode) == "" {
		return fmt.Errorf("%w: postalCode is required", ErrInvalidInput)
	}

	return nil
}
