package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/pkg/dbmetrics"
	"github.com/cleanhome/CH-BookingService/pkg/psqlbuilder"
	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// Имена constraint'ов, по которым различаем нарушения уникальности
const (
	constraintReference = "bookings_reference_key"
	constraintSlot      = "bookings_slot_key"
)

const pgUniqueViolation = "23505"

var bookingColumns = []string{
	"id",
	"reference",
	"customer_id",
	"service_id",
	"address_id",
	"scheduled_date",
	"start_time",
	"duration_minutes",
	"time_band",
	"bedrooms",
	"bathrooms",
	"bedroom_subtotal",
	"bathroom_subtotal",
	"subtotal",
	"tax_amount",
	"total_amount",
	"status",
	"assigned_cleaner_id",
	"special_instructions",
	"cancellation_reason",
	"confirmed_at",
	"completed_at",
	"cancelled_at",
	"customer_notified",
	"admin_notified",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create вставляет новое бронирование.
// Должен вызываться внутри сериализуемой транзакции координатора:
// уникальные индексы по reference и по слоту (при ёмкости 1) -
// финальный рубеж целостности, не зависящий от проверок приложения.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"reference",
			"customer_id",
			"service_id",
			"address_id",
			"scheduled_date",
			"start_time",
			"duration_minutes",
			"time_band",
			"bedrooms",
			"bathrooms",
			"bedroom_subtotal",
			"bathroom_subtotal",
			"subtotal",
			"tax_amount",
			"total_amount",
			"status",
			"special_instructions",
		).
		Values(
			booking.Reference,
			booking.CustomerID,
			booking.ServiceID,
			booking.AddressID,
			booking.ScheduledDate,
			booking.StartTime,
			booking.DurationMinutes,
			booking.TimeBand,
			booking.Bedrooms,
			booking.Bathrooms,
			booking.BedroomSubtotal,
			booking.BathroomSubtotal,
			booking.Subtotal,
			booking.TaxAmount,
			booking.TotalAmount,
			booking.Status,
			booking.SpecialInstructions,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if uniqueErr := classifyUniqueViolation(err); uniqueErr != nil {
			return nil, uniqueErr
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по внутреннему ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByReference получает бронирование по референсу
func (r *Repository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"reference": reference})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where)

	// Внутри транзакции блокируем строку: статусные переходы
	// должны сериализоваться между собой
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ExistsByReference проверяет, занят ли референс
func (r *Repository) ExistsByReference(ctx context.Context, reference string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"reference": reference}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ExistsByReference - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ExistsByReference - execute query: %v", ErrExecQuery, err)
	}

	return true, nil
}

// CountInYear подсчитывает бронирования, созданные в указанном календарном году
// Используется генератором референсов
func (r *Repository) CountInYear(ctx context.Context, year int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.GtOrEq{"created_at": yearStart}).
		Where(squirrel.Lt{"created_at": yearEnd}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountInYear - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountInYear - execute query: %v", ErrExecQuery, err)
	}

	return count, nil
}

// CountActiveAtSlot подсчитывает активные бронирования (pending, confirmed)
// на точный момент слота. Внутри транзакции блокирует найденные строки
// (FOR UPDATE), сериализуя конкурентные резервации одного слота.
func (r *Repository) CountActiveAtSlot(ctx context.Context, date time.Time, startTime types.TimeString) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	selectBuilder := psqlbuilder.Select("id").
		From("bookings").
		Where(squirrel.Eq{"scheduled_date": date}).
		Where(squirrel.Eq{"start_time": startTime}).
		Where(squirrel.Eq{"status": activeStatuses})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveAtSlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveAtSlot - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("%w: CountActiveAtSlot - scan row: %v", ErrScanRow, err)
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%w: CountActiveAtSlot - rows error: %v", ErrScanRow, err)
	}

	return count, nil
}

// CountActiveByDate возвращает количество активных бронирований на дату,
// сгруппированное по времени начала слота
func (r *Repository) CountActiveByDate(ctx context.Context, date time.Time) (map[types.TimeString]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("start_time", "COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"scheduled_date": date}).
		Where(squirrel.Eq{"status": activeStatuses}).
		GroupBy("start_time").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[types.TimeString]int)
	for rows.Next() {
		var (
			startTime types.TimeString
			count     int
		)
		if err := rows.Scan(&startTime, &count); err != nil {
			return nil, fmt.Errorf("%w: CountActiveByDate - scan row: %v", ErrScanRow, err)
		}
		counts[startTime] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountActiveByDate - rows error: %v", ErrScanRow, err)
	}

	return counts, nil
}

// UpdateStatus обновляет статус бронирования и связанные временные метки
// Валидация перехода выполняется на уровне сервиса - здесь только запись
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id})

	switch status {
	case domain.StatusConfirmed:
		updateBuilder = updateBuilder.Set("confirmed_at", squirrel.Expr("NOW()"))
	case domain.StatusCompleted:
		updateBuilder = updateBuilder.Set("completed_at", squirrel.Expr("NOW()"))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// Cancel отменяет бронирование с обязательной причиной
func (r *Repository) Cancel(ctx context.Context, id int64, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Cancel")
}

// AssignCleaner назначает клинера на бронирование
func (r *Repository) AssignCleaner(ctx context.Context, id int64, cleanerID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("assigned_cleaner_id", cleanerID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AssignCleaner - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "AssignCleaner")
}

// SetNotificationFlags отмечает отправленные уведомления
// Вызывается диспетчером уведомлений вне транзакции бронирования, best-effort
func (r *Repository) SetNotificationFlags(ctx context.Context, id int64, customerNotified, adminNotified bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("customer_notified", customerNotified).
		Set("admin_notified", adminNotified).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetNotificationFlags - build update query: %v", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "SetNotificationFlags")
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// classifyUniqueViolation переводит нарушение уникального индекса
// в доменную ошибку по имени constraint'а
func classifyUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pgUniqueViolation {
		return nil
	}

	switch pqErr.Constraint {
	case constraintReference:
		return ErrDuplicateReference
	case constraintSlot:
		return ErrSlotTaken
	default:
		return nil
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.CustomerID,
		&booking.ServiceID,
		&booking.AddressID,
		&booking.ScheduledDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.TimeBand,
		&booking.Bedrooms,
		&booking.Bathrooms,
		&booking.BedroomSubtotal,
		&booking.BathroomSubtotal,
		&booking.Subtotal,
		&booking.TaxAmount,
		&booking.TotalAmount,
		&booking.Status,
		&booking.AssignedCleanerID,
		&booking.SpecialInstructions,
		&booking.CancellationReason,
		&booking.ConfirmedAt,
		&booking.CompletedAt,
		&booking.CancelledAt,
		&booking.CustomerNotified,
		&booking.AdminNotified,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
