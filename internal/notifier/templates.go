package notifier

import (
	"fmt"

	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/internal/integrations/mailservice"
)

// buildCustomerMessage письмо-подтверждение клиенту
func buildCustomerMessage(from string, b *domain.Booking, c *domain.Customer, s *domain.CleaningService) *mailservice.Message {
	subject := fmt.Sprintf("Booking confirmation %s", b.Reference)

	text := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your booking has been received and is pending confirmation.\n\n"+
			"Reference: %s\n"+
			"Service: %s\n"+
			"Date: %s at %s\n\n"+
			"Bedrooms (%d): $%s\n"+
			"Bathrooms (%d): $%s\n"+
			"Subtotal: $%s\n"+
			"Tax: $%s\n"+
			"Total: $%s\n\n"+
			"We will contact you once a cleaner is assigned.\n",
		c.FirstName,
		b.Reference,
		s.Name,
		b.ScheduledDate.Format(domain.DateFormat), b.StartTime.String(),
		b.Bedrooms, b.BedroomSubtotal.StringFixed(2),
		b.Bathrooms, b.BathroomSubtotal.StringFixed(2),
		b.Subtotal.StringFixed(2),
		b.TaxAmount.StringFixed(2),
		b.TotalAmount.StringFixed(2),
	)

	return &mailservice.Message{
		From:    from,
		To:      []string{c.Email},
		Subject: subject,
		Text:    text,
	}
}

// buildAdminMessage уведомление администратору о новом бронировании
func buildAdminMessage(from, adminEmail string, b *domain.Booking, c *domain.Customer, s *domain.CleaningService) *mailservice.Message {
	subject := fmt.Sprintf("New booking %s", b.Reference)

	text := fmt.Sprintf(
		"New booking created.\n\n"+
			"Reference: %s\n"+
			"Customer: %s %s <%s>, phone %s\n"+
			"Service: %s\n"+
			"Date: %s at %s (%s)\n"+
			"Bedrooms: %d, bathrooms: %d\n"+
			"Total: $%s\n\n"+
			"A cleaner has to be assigned to confirm the booking.\n",
		b.Reference,
		c.FirstName, c.LastName, c.Email, c.Phone,
		s.Name,
		b.ScheduledDate.Format(domain.DateFormat), b.StartTime.String(), b.TimeBand,
		b.Bedrooms, b.Bathrooms,
		b.TotalAmount.StringFixed(2),
	)

	return &mailservice.Message{
		From:    from,
		To:      []string{adminEmail},
		Subject: subject,
		Text:    text,
	}
}
