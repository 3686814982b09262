package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cleanhome/CH-BookingService/internal/domain"
	bookingRepo "github.com/cleanhome/CH-BookingService/internal/infra/storage/booking"
	cleanerRepo "github.com/cleanhome/CH-BookingService/internal/infra/storage/cleaner"
	"github.com/cleanhome/CH-BookingService/internal/service/bookings/models"
	"github.com/cleanhome/CH-BookingService/pkg/ptr"
)

// Service сервис для работы с созданными бронированиями:
// чтение, переходы статусов, отмена и назначение клинера
type Service struct {
	bookingRepo BookingRepository
	historyRepo HistoryRepository
	cleanerRepo CleanerRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	cleanerRepo CleanerRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		historyRepo: historyRepo,
		cleanerRepo: cleanerRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByReference получает бронирование по номеру вместе с историей статусов
func (s *Service) GetByReference(ctx context.Context, reference string) (*models.BookingDetailsResponse, error) {
	s.logger.Info("GetByReference: fetching booking reference=%s", reference)

	booking, err := s.getBooking(ctx, reference, "GetByReference")
	if err != nil {
		return nil, err
	}

	history, err := s.historyRepo.ListByBookingID(ctx, booking.ID)
	if err != nil {
		s.logger.Error("GetByReference: failed to list history for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: GetByReference - history error: %v", ErrInternal, err)
	}

	return &models.BookingDetailsResponse{
		Booking: models.FromDomainBooking(booking),
		History: models.FromDomainHistory(history),
	}, nil
}

// UpdateStatus переводит бронирование в новый статус.
// Переход и запись истории выполняются в одной транзакции
func (s *Service) UpdateStatus(ctx context.Context, reference string, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: booking reference=%s -> status=%s", reference, req.Status)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for reference=%s", req.Status, reference)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	changedBy := actorOrSystem(req.ChangedBy)

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, reference, "UpdateStatus")
		if err != nil {
			return err
		}

		if !domain.CanTransitionTo(booking.Status, newStatus) {
			s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for reference=%s",
				booking.Status, newStatus, reference)
			return ErrInvalidStatusTransition
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, newStatus); err != nil {
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		if err := s.writeHistory(txCtx, booking, newStatus, changedBy, req.Note); err != nil {
			return err
		}

		s.logger.Info("UpdateStatus: booking reference=%s moved %s -> %s by %s",
			reference, booking.Status, newStatus, changedBy)
		return nil
	})
}

// Cancel отменяет бронирование с указанием причины
func (s *Service) Cancel(ctx context.Context, reference string, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking reference=%s", reference)

	if strings.TrimSpace(req.Reason) == "" {
		s.logger.Warn("Cancel: missing cancellation reason for reference=%s", reference)
		return fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	cancelledBy := actorOrSystem(req.CancelledBy)

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, reference, "Cancel")
		if err != nil {
			return err
		}

		if !booking.CanBeCancelled() {
			s.logger.Warn("Cancel: booking reference=%s cannot be cancelled, status=%s",
				reference, booking.Status)
			return ErrInvalidStatusTransition
		}

		if err := s.bookingRepo.Cancel(txCtx, booking.ID, req.Reason); err != nil {
			s.logger.Error("Cancel: repository error for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if err := s.writeHistory(txCtx, booking, domain.StatusCancelled, cancelledBy, ptr.Ptr(req.Reason)); err != nil {
			return err
		}

		s.logger.Info("Cancel: booking reference=%s cancelled by %s", reference, cancelledBy)
		return nil
	})
}

// AssignCleaner назначает клинера и подтверждает бронирование.
// Назначение возможно только в статусе pending
func (s *Service) AssignCleaner(ctx context.Context, reference string, req *models.AssignCleanerRequest) error {
	s.logger.Info("AssignCleaner: booking reference=%s, cleaner id=%d", reference, req.CleanerID)

	if req.CleanerID <= 0 {
		return fmt.Errorf("%w: cleanerID must be positive", ErrInvalidInput)
	}

	cleaner, err := s.cleanerRepo.GetByID(ctx, req.CleanerID)
	if err != nil {
		if errors.Is(err, cleanerRepo.ErrCleanerNotFound) {
			s.logger.Warn("AssignCleaner: cleaner id=%d not found", req.CleanerID)
			return ErrCleanerNotFound
		}
		s.logger.Error("AssignCleaner: repository error for cleaner id=%d: %v", req.CleanerID, err)
		return fmt.Errorf("%w: AssignCleaner - repository error: %v", ErrInternal, err)
	}

	if !cleaner.IsActive {
		s.logger.Warn("AssignCleaner: cleaner id=%d is inactive", req.CleanerID)
		return ErrCleanerInactive
	}

	assignedBy := actorOrSystem(req.AssignedBy)

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, reference, "AssignCleaner")
		if err != nil {
			return err
		}

		if !domain.CanTransitionTo(booking.Status, domain.StatusConfirmed) {
			s.logger.Warn("AssignCleaner: booking reference=%s is not pending, status=%s",
				reference, booking.Status)
			return ErrInvalidStatusTransition
		}

		if err := s.bookingRepo.AssignCleaner(txCtx, booking.ID, req.CleanerID); err != nil {
			s.logger.Error("AssignCleaner: repository error for booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: AssignCleaner - repository error: %v", ErrInternal, err)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, domain.StatusConfirmed); err != nil {
			s.logger.Error("AssignCleaner: failed to confirm booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: AssignCleaner - repository error: %v", ErrInternal, err)
		}

		note := fmt.Sprintf("Cleaner %d assigned", req.CleanerID)
		if err := s.writeHistory(txCtx, booking, domain.StatusConfirmed, assignedBy, ptr.Ptr(note)); err != nil {
			return err
		}

		s.logger.Info("AssignCleaner: booking reference=%s confirmed with cleaner id=%d",
			reference, req.CleanerID)
		return nil
	})
}

// Вспомогательные методы

// getBooking читает бронирование и нормализует ошибку not found
func (s *Service) getBooking(ctx context.Context, reference string, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking reference=%s not found", op, reference)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for reference=%s: %v", op, reference, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// writeHistory добавляет запись перехода статуса
func (s *Service) writeHistory(
	ctx context.Context,
	booking *domain.Booking,
	toStatus domain.BookingStatus,
	changedBy string,
	note *string,
) error {
	fromStatus := booking.Status
	_, err := s.historyRepo.Create(ctx, &domain.StatusHistoryEntry{
		BookingID:  booking.ID,
		FromStatus: &fromStatus,
		ToStatus:   toStatus,
		ChangedBy:  changedBy,
		Note:       note,
	})
	if err != nil {
		s.logger.Error("writeHistory: failed for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to write status history: %v", ErrInternal, err)
	}
	return nil
}

// actorOrSystem возвращает имя актора либо "system" по умолчанию
func actorOrSystem(actor string) string {
	if strings.TrimSpace(actor) == "" {
		return domain.ActorSystem
	}
	return actor
}
