package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/cleanhome/CH-BookingService/internal/domain"
	"github.com/cleanhome/CH-BookingService/pkg/dbmetrics"
	"github.com/cleanhome/CH-BookingService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с клиентами и их адресами
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertByEmail создает клиента или обновляет контактные поля существующего.
// Идемпотентен по email: повторный вызов с теми же данными безопасен,
// что позволяет координатору повторять транзакцию целиком.
func (r *Repository) UpsertByEmail(ctx context.Context, email, firstName, lastName, phone string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customers").
		Columns("email", "first_name", "last_name", "phone").
		Values(email, firstName, lastName, phone).
		Suffix(`ON CONFLICT (email) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			updated_at = NOW()
		RETURNING id, email, first_name, last_name, phone, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByEmail - build upsert query: %v", ErrBuildQuery, err)
	}

	var (
		customer             domain.Customer
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&customer.ID,
		&customer.Email,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByEmail - execute upsert: %v", ErrExecQuery, err)
	}

	customer.CreatedAt = createdAt.Time
	customer.UpdatedAt = updatedAt.Time

	return &customer, nil
}

// GetByEmail получает клиента по email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "email", "first_name", "last_name", "phone", "created_at", "updated_at",
	).
		From("customers").
		Where(squirrel.Eq{"email": email}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - build select query: %v", ErrBuildQuery, err)
	}

	var (
		customer             domain.Customer
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&customer.ID,
		&customer.Email,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByEmail - scan customer: %v", ErrScanRow, err)
	}

	customer.CreatedAt = createdAt.Time
	customer.UpdatedAt = updatedAt.Time

	return &customer, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "email", "first_name", "last_name", "phone", "created_at", "updated_at",
	).
		From("customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		customer             domain.Customer
		createdAt, updatedAt sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&customer.ID,
		&customer.Email,
		&customer.FirstName,
		&customer.LastName,
		&customer.Phone,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan customer: %v", ErrScanRow, err)
	}

	customer.CreatedAt = createdAt.Time
	customer.UpdatedAt = updatedAt.Time

	return &customer, nil
}

// CreateAddress создает адрес обслуживания для клиента
func (r *Repository) CreateAddress(ctx context.Context, address *domain.Address) (*domain.Address, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if address.Country == "" {
		address.Country = domain.DefaultCountry
	}

	query, args, err := psqlbuilder.Insert("addresses").
		Columns(
			"customer_id",
			"street_address",
			"apartment_unit",
			"city",
			"state_province",
			"postal_code",
			"country",
		).
		Values(
			address.CustomerID,
			address.StreetAddress,
			address.ApartmentUnit,
			address.City,
			address.StateProvince,
			address.PostalCode,
			address.Country,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateAddress - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&address.ID,
		&createdAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: CreateAddress - execute insert: %v", ErrExecQuery, err)
	}

	address.CreatedAt = createdAt.Time

	return address, nil
}
