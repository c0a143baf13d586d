package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/glowbook/booking-service/internal/domain"
	"github.com/glowbook/booking-service/pkg/dbmetrics"
	"github.com/glowbook/booking-service/pkg/psqlbuilder"
)

// Repository читающий репозиторий производного агрегата "клиент"
// Клиенты не хранятся отдельной таблицей: агрегат каждый раз
// пересчитывается из бронирований, ключ уникальности - email
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProfessional возвращает клиентов профессионала с историей посещений
// TotalBookings считает активные бронирования, LastVisit - дату последнего
// подтверждённого визита
func (r *Repository) GetByProfessional(ctx context.Context, professionalID int64) ([]*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	activeStatusStrings := make([]string, len(domain.ActiveBookingStatuses))
	for i, s := range domain.ActiveBookingStatuses {
		activeStatusStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Select(
		"b.client_email",
		"MAX(b.client_name) AS client_name",
		"MAX(b.client_phone) AS client_phone",
		"COUNT(*) AS total_bookings",
		fmt.Sprintf("MAX(s.date) FILTER (WHERE b.status = '%s') AS last_visit", domain.StatusConfirmed),
	).
		From("bookings b").
		Join("time_slots s ON s.id = b.slot_id").
		Where(squirrel.Eq{"b.professional_id": professionalID}).
		Where(squirrel.Eq{"b.status": activeStatusStrings}).
		GroupBy("b.client_email").
		OrderBy("MAX(b.created_at) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessional - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProfessional - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		var c domain.Client
		var lastVisit sql.NullTime

		if err := rows.Scan(&c.Email, &c.Name, &c.Phone, &c.TotalBookings, &lastVisit); err != nil {
			return nil, fmt.Errorf("%w: GetByProfessional - scan row: %v", ErrScanRow, err)
		}

		c.ProfessionalID = professionalID
		if lastVisit.Valid {
			c.LastVisit = &lastVisit.Time
		}
		clients = append(clients, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByProfessional - rows error: %v", ErrScanRow, err)
	}

	return clients, nil
}
