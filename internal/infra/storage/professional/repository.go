package professional

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/glowbook/booking-service/internal/domain"
	"github.com/glowbook/booking-service/pkg/dbmetrics"
	"github.com/glowbook/booking-service/pkg/psqlbuilder"
)

var professionalColumns = []string{
	"id",
	"slug",
	"name",
	"email",
	"phone",
	"bio",
	"services",
	"timezone",
	"working_hours",
	"buffer_minutes",
	"allow_cancellations",
	"show_available_only",
	"slot_granularity_minutes",
	"email_notifications",
	"sms_notifications",
	"telegram_notifications",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с профессионалами
// Рабочие часы хранятся в jsonb-колонке working_hours
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория профессионалов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает профессионала по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Professional, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetBySlug получает профессионала по публичному slug ссылки для записи
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.Professional, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(professionalColumns...).
		From("professionals").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	var p domain.Professional
	var workingHoursRaw []byte
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Bio,
		&p.Services,
		&p.Timezone,
		&workingHoursRaw,
		&p.BufferMinutes,
		&p.Settings.AllowCancellations,
		&p.Settings.ShowAvailableOnly,
		&p.Settings.SlotGranularityMinutes,
		&p.Settings.EmailNotifications,
		&p.Settings.SMSNotifications,
		&p.Settings.TelegramNotifications,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan professional: %v", ErrScanRow, err)
	}

	if err := json.Unmarshal(workingHoursRaw, &p.WorkingHours); err != nil {
		return nil, fmt.Errorf("%w: getOne - unmarshal working hours: %v", ErrScanRow, err)
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}

// UpdateSchedule обновляет рабочие часы и буфер профессионала
func (r *Repository) UpdateSchedule(ctx context.Context, id int64, hours domain.WeekSchedule, bufferMinutes int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	workingHoursRaw, err := json.Marshal(hours)
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - marshal working hours: %v", ErrBuildQuery, err)
	}

	query, args, err := psqlbuilder.Update("professionals").
		Set("working_hours", workingHoursRaw).
		Set("buffer_minutes", bufferMinutes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSchedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, executor, query, args, "UpdateSchedule")
}

// UpdateSettings обновляет настройки бронирований и уведомлений
func (r *Repository) UpdateSettings(ctx context.Context, id int64, settings domain.ProfessionalSettings) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("professionals").
		Set("allow_cancellations", settings.AllowCancellations).
		Set("show_available_only", settings.ShowAvailableOnly).
		Set("slot_granularity_minutes", settings.SlotGranularityMinutes).
		Set("email_notifications", settings.EmailNotifications).
		Set("sms_notifications", settings.SMSNotifications).
		Set("telegram_notifications", settings.TelegramNotifications).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateSettings - build update query: %v", ErrBuildQuery, err)
	}

	return r.execUpdate(ctx, executor, query, args, "UpdateSettings")
}

func (r *Repository) execUpdate(ctx context.Context, executor dbmetrics.DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrProfessionalNotFound
	}

	return nil
}
