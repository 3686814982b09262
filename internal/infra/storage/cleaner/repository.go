package cleaner

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/pkg/dbmetrics"
	"github.com/cleanhome/CH-BookingService/pkg/psqlbuilder"
	"github.com/cleanhome/CH-BookingService/pkg/types"
)

// Repository репозиторий для работы с клинерами и их доступностью
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клинеров
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindAvailable возвращает ID активных клинеров, чьё окно доступности
// покрывает слот целиком и у кого нет пересекающегося активного бронирования
func (r *Repository) FindAvailable(ctx context.Context, date time.Time, startTime types.TimeString, durationMinutes int) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	endTime, err := startTime.AddMinutes(durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - invalid slot duration: %v", ErrBuildQuery, err)
	}

	activeStatuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		activeStatuses[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("c.id").
		From("cleaners c").
		Join("cleaner_availability a ON a.cleaner_id = c.id").
		Where(squirrel.Eq{"c.is_active": true}).
		Where(squirrel.Eq{"a.available_date": date}).
		Where(squirrel.LtOrEq{"a.start_time": startTime}).
		Where(squirrel.GtOrEq{"a.end_time": endTime}).
		Where(squirrel.Expr(
			`NOT EXISTS (
				SELECT 1 FROM bookings b
				WHERE b.assigned_cleaner_id = c.id
				  AND b.scheduled_date = a.available_date
				  AND b.status = ANY(?)
				  AND b.start_time < ?
				  AND b.start_time + make_interval(mins => b.duration_minutes) > ?
			)`,
			pq.Array(activeStatuses), endTime, startTime,
		)).
		OrderBy("c.id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: FindAvailable - scan cleaner id: %v", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FindAvailable - rows error: %v", ErrScanRow, err)
	}

	return ids, nil
}

// GetByID получает клинера по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Cleaner, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "first_name", "last_name", "email", "is_active",
	).
		From("cleaners").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Cleaner
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Email,
		&c.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCleanerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan cleaner: %v", ErrScanRow, err)
	}

	return &c, nil
}
