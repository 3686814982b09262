package domain

import "time"

// Customer is the owner of bookings, identified by email
type Customer struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address is a service address attached to a customer
type Address struct {
	ID            int64
	CustomerID    int64
	StreetAddress string
	ApartmentUnit *string
	City          string
	StateProvince string
	PostalCode    string
	Country       string
	CreatedAt     time.Time
}

// CleaningService is a catalog entry selectable by a booking request
type CleaningService struct {
	ID              int64
	Name            string
	Description     *string
	Tier            ServiceTier
	DurationMinutes int
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Cleaner is a schedulable worker assignable to a confirmed booking
type Cleaner struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	IsActive  bool
}
