package slot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/glowbook/booking-service/internal/domain"
	"github.com/glowbook/booking-service/pkg/dbmetrics"
	"github.com/glowbook/booking-service/pkg/psqlbuilder"
)

var slotColumns = []string{
	"id",
	"professional_id",
	"date",
	"start_time",
	"end_time",
	"status",
	"booking_id",
	"version",
	"reserved_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами
// Единственный владелец состояния таблицы time_slots: все смены статуса
// выполняются условными UPDATE-ами (CAS по статусу), прямых записей статуса нет
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новый слот с проверкой пересечений
// Интервалы полуоткрытые [start, end): слоты "впритык" не считаются пересечением.
// Должен вызываться в сериализуемой транзакции, иначе проверка пересечений
// подвержена гонке между конкурентными созданиями
func (r *Repository) Create(ctx context.Context, s *domain.TimeSlot) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Проверяем пересечение с неотменёнными слотами профессионала
	overlapBuilder := psqlbuilder.Select("id").
		From("time_slots").
		Where(squirrel.Eq{"professional_id": s.ProfessionalID}).
		Where(squirrel.Eq{"date": s.Date}).
		Where(squirrel.NotEq{"status": string(domain.SlotStatusCancelled)}).
		Where(squirrel.Lt{"start_time": s.EndTime.String()}).
		Where(squirrel.Gt{"end_time": s.StartTime.String()}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		overlapBuilder = overlapBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := overlapBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build overlap query: %v", ErrBuildQuery, err)
	}

	var conflictID int64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&conflictID)
	if err == nil {
		return nil, fmt.Errorf("%w: conflicts with slot id=%d", ErrSlotOverlap, conflictID)
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("%w: Create - check overlap: %v", ErrExecQuery, err)
	}

	query, args, err = psqlbuilder.Insert("time_slots").
		Columns("professional_id", "date", "start_time", "end_time", "status").
		Values(s.ProfessionalID, s.Date, s.StartTime, s.EndTime, domain.SlotStatusAvailable).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	s.Status = domain.SlotStatusAvailable
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}

// GetByID получает слот по ID
// В транзакции блокирует строку (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// GetByFilter получает слоты профессионала с фильтрацией по периоду и статусу
// Результат упорядочен по дате, затем по времени начала; запрос можно
// перезапускать - выборка детерминирована
func (r *Repository) GetByFilter(ctx context.Context, filter domain.SlotFilter) ([]*domain.TimeSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(squirrel.Eq{"professional_id": filter.ProfessionalID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"date": *filter.To})
	}
	if filter.OnlyAvailable {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(domain.SlotStatusAvailable)})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": string(domain.SlotStatusCancelled)})
	}

	selectBuilder = selectBuilder.OrderBy("date ASC, start_time ASC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// Reserve атомарно переводит слот available -> pending
// Условный UPDATE по статусу гарантирует, что из двух конкурентных
// резервирований одного слота выигрывает ровно одно
func (r *Repository) Reserve(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("status", domain.SlotStatusPending).
		Set("version", squirrel.Expr("version + 1")).
		Set("reserved_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(domain.SlotStatusAvailable)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Reserve - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		// Либо слота нет, либо он уже не available - различаем для вызывающего
		if _, getErr := r.GetByID(ctx, id); getErr == ErrSlotNotFound {
			return ErrSlotNotFound
		}
		return ErrSlotNotAvailable
	}

	return nil
}

// AttachBooking привязывает бронирование к зарезервированному слоту
func (r *Repository) AttachBooking(ctx context.Context, slotID, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID}).
		Where(squirrel.Eq{"status": string(domain.SlotStatusPending)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AttachBooking - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrInvalidTransition
	}

	return nil
}

// Commit переводит слот pending -> booked (бронирование подтверждено)
// или pending -> available (бронирование отклонено, слот открывается заново)
func (r *Repository) Commit(ctx context.Context, id int64, outcome domain.SlotStatus) error {
	if outcome != domain.SlotStatusBooked && outcome != domain.SlotStatusAvailable {
		return fmt.Errorf("%w: commit outcome must be booked or available, got %q", ErrInvalidTransition, outcome)
	}

	updateBuilder := psqlbuilder.Update("time_slots").
		Set("status", outcome).
		Set("version", squirrel.Expr("version + 1")).
		Set("reserved_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(domain.SlotStatusPending)})

	// Открытый заново слот не должен ссылаться на отклонённое бронирование
	if outcome == domain.SlotStatusAvailable {
		updateBuilder = updateBuilder.Set("booking_id", nil)
	}

	return r.execTransition(ctx, updateBuilder, "Commit")
}

// ReleaseBooked переводит слот booked -> available или booked -> cancelled
// Используется при отмене подтверждённого бронирования
func (r *Repository) ReleaseBooked(ctx context.Context, id int64, to domain.SlotStatus) error {
	if to != domain.SlotStatusAvailable && to != domain.SlotStatusCancelled {
		return fmt.Errorf("%w: release target must be available or cancelled, got %q", ErrInvalidTransition, to)
	}

	updateBuilder := psqlbuilder.Update("time_slots").
		Set("status", to).
		Set("version", squirrel.Expr("version + 1")).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(domain.SlotStatusBooked)})

	return r.execTransition(ctx, updateBuilder, "ReleaseBooked")
}

// Cancel отменяет свободный слот (профессионал удаляет его из расписания)
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	updateBuilder := psqlbuilder.Update("time_slots").
		Set("status", domain.SlotStatusCancelled).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(domain.SlotStatusAvailable)})

	return r.execTransition(ctx, updateBuilder, "Cancel")
}

// ExpiredHold зависший pending-слот, освобождённый по таймауту
type ExpiredHold struct {
	SlotID    int64
	BookingID *int64
}

// ReleaseExpired освобождает pending-слоты, зарезервированные раньше cutoff
// Возвращает освобождённые слоты с привязанными бронированиями,
// чтобы вызывающий мог отменить их и опубликовать события
func (r *Repository) ReleaseExpired(ctx context.Context, cutoff time.Time) ([]ExpiredHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("status", domain.SlotStatusAvailable).
		Set("version", squirrel.Expr("version + 1")).
		Set("reserved_at", nil).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": string(domain.SlotStatusPending)}).
		Where(squirrel.Lt{"reserved_at": cutoff}).
		Suffix("RETURNING id, booking_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReleaseExpired - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReleaseExpired - execute update: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	holds := make([]ExpiredHold, 0)
	for rows.Next() {
		var hold ExpiredHold
		var bookingID sql.NullInt64
		if err := rows.Scan(&hold.SlotID, &bookingID); err != nil {
			return nil, fmt.Errorf("%w: ReleaseExpired - scan row: %v", ErrScanRow, err)
		}
		if bookingID.Valid {
			hold.BookingID = &bookingID.Int64
		}
		holds = append(holds, hold)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReleaseExpired - rows error: %v", ErrScanRow, err)
	}

	return holds, nil
}

// execTransition выполняет условный UPDATE смены статуса
// Ноль затронутых строк означает, что слот не в ожидаемом статусе
func (r *Repository) execTransition(ctx context.Context, builder squirrel.UpdateBuilder, op string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrInvalidTransition
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.TimeSlot, error) {
	var s domain.TimeSlot
	var bookingID sql.NullInt64
	var reservedAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.ProfessionalID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Status,
		&bookingID,
		&s.Version,
		&reservedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if bookingID.Valid {
		s.BookingID = &bookingID.Int64
	}
	if reservedAt.Valid {
		s.ReservedAt = &reservedAt.Time
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.TimeSlot, error) {
	slots := make([]*domain.TimeSlot, 0)

	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanSlots - scan row: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
