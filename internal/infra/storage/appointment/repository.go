package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurneroService/pkg/psqlbuilder"
)

var appointmentColumns = []string{
	"a.id",
	"a.shop_id",
	"a.professional_id",
	"a.service_id",
	"a.start_time",
	"a.end_time",
	"a.customer_name",
	"a.customer_phone",
	"a.customer_email",
	"a.notes",
	"a.status",
	"a.cancellation_token",
	"a.cancelled_at",
	"a.created_at",
	"a.updated_at",
}

var detailsColumns = append(append([]string{}, appointmentColumns...),
	"s.id",
	"s.name",
	"s.slug",
	"COALESCE(s.timezone, '')",
	"s.webhook_url",
	"s.webhook_enabled",
	"p.id",
	"p.shop_id",
	"p.name",
	"p.buffer_time_minutes",
	"p.is_active",
	"sv.id",
	"sv.name",
	"sv.duration_minutes",
	"sv.price",
)

// occupyingStatuses статусы, занимающие время в расписании
func occupyingStatuses() []string {
	statuses := make([]string, len(domain.OccupyingStatuses))
	for i, s := range domain.OccupyingStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// Repository репозиторий для работы с записями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListOccupying возвращает интервалы записей специалиста, пересекающие [from, to)
// Отмененные записи не занимают время и не возвращаются
func (r *Repository) ListOccupying(ctx context.Context, professionalID uuid.UUID, from, to time.Time) ([]domain.AppointmentOccupation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_time", "end_time").
		From("appointments").
		Where(squirrel.Eq{"professional_id": professionalID, "status": occupyingStatuses()}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOccupying - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOccupying - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	occupations := make([]domain.AppointmentOccupation, 0)
	for rows.Next() {
		var o domain.AppointmentOccupation
		if err := rows.Scan(&o.Start, &o.End); err != nil {
			return nil, fmt.Errorf("%w: ListOccupying - scan row: %v", ErrScanRow, err)
		}
		occupations = append(occupations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOccupying - rows error: %v", ErrScanRow, err)
	}

	return occupations, nil
}

// LockProfessional берет транзакционную advisory-блокировку на календарь специалиста.
// Блокировка снимается при COMMIT/ROLLBACK, поэтому вызывать только внутри транзакции.
func (r *Repository) LockProfessional(ctx context.Context, professionalID uuid.UUID) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return ErrNotInTransaction
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", professionalID.String()); err != nil {
		return fmt.Errorf("%w: LockProfessional - execute: %v", ErrExecQuery, err)
	}
	return nil
}

// HasOverlap проверяет, есть ли у специалиста занимающая запись, пересекающая [start, end)
func (r *Repository) HasOverlap(ctx context.Context, professionalID uuid.UUID, start, end time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	sub, args, err := psqlbuilder.Select("1").
		From("appointments").
		Where(squirrel.Eq{"professional_id": professionalID, "status": occupyingStatuses()}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: HasOverlap - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: HasOverlap - scan: %v", ErrScanRow, err)
	}

	return exists, nil
}

// Create создает запись. ID генерируется на стороне сервиса.
// Нарушение exclusion constraint по интервалу специалиста возвращается как ErrSlotNotAvailable.
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"id",
			"shop_id",
			"professional_id",
			"service_id",
			"start_time",
			"end_time",
			"customer_name",
			"customer_phone",
			"customer_email",
			"notes",
			"status",
			"cancellation_token",
		).
		Values(
			appointment.ID,
			appointment.ShopID,
			appointment.ProfessionalID,
			appointment.ServiceID,
			appointment.StartTime.UTC(),
			appointment.EndTime.UTC(),
			appointment.CustomerName,
			appointment.CustomerPhone,
			appointment.CustomerEmail,
			appointment.Notes,
			appointment.Status,
			appointment.CancellationToken,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		if isSlotConflict(err) {
			return nil, ErrSlotNotAvailable
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return appointment, nil
}

// GetDetailsByID получает запись магазина вместе со связанными сущностями
func (r *Repository) GetDetailsByID(ctx context.Context, id, shopID uuid.UUID) (*domain.AppointmentDetails, error) {
	return r.getDetails(ctx, "GetDetailsByID", squirrel.Eq{"a.id": id, "a.shop_id": shopID})
}

// GetDetailsByCancellationToken получает запись по токену отмены
func (r *Repository) GetDetailsByCancellationToken(ctx context.Context, token string) (*domain.AppointmentDetails, error) {
	if token == "" {
		return nil, ErrAppointmentNotFound
	}
	return r.getDetails(ctx, "GetDetailsByCancellationToken", squirrel.Eq{"a.cancellation_token": token})
}

// ListDetailsByShop получает записи магазина, начинающиеся в [from, to), по времени начала
// Отмененные записи включаются: агенда показывает их с соответствующим статусом
func (r *Repository) ListDetailsByShop(ctx context.Context, shopID uuid.UUID, from, to time.Time) ([]*domain.AppointmentDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsSelect().
		Where(squirrel.Eq{"a.shop_id": shopID}).
		Where(squirrel.GtOrEq{"a.start_time": from}).
		Where(squirrel.Lt{"a.start_time": to}).
		OrderBy("a.start_time ASC", "p.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetailsByShop - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListDetailsByShop - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	list := make([]*domain.AppointmentDetails, 0)
	for rows.Next() {
		details, err := scanDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListDetailsByShop - scan row: %v", ErrScanRow, err)
		}
		list = append(list, details)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListDetailsByShop - rows error: %v", ErrScanRow, err)
	}

	return list, nil
}

// UpdateStatus переводит запись из статуса expected в next.
// Условие по текущему статусу защищает от параллельных изменений: если строка не обновилась,
// возвращается ErrStatusChanged (или ErrAppointmentNotFound, если записи нет).
func (r *Repository) UpdateStatus(
	ctx context.Context,
	id, shopID uuid.UUID,
	expected, next domain.AppointmentStatus,
	at time.Time,
) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	update := psqlbuilder.Update("appointments").
		Set("status", next).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id, "shop_id": shopID, "status": expected})
	if next == domain.StatusCancelled {
		update = update.Set("cancelled_at", at.UTC())
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if isSlotConflict(err) {
			return ErrSlotNotAvailable
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		exists, err := r.exists(ctx, id, shopID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrAppointmentNotFound
		}
		return ErrStatusChanged
	}

	return nil
}

// CompletePast переводит подтвержденные записи, закончившиеся до now, в completed.
// Операция идемпотентна: повторный вызов не находит подходящих строк.
func (r *Repository) CompletePast(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCompleted).
		Set("updated_at", now.UTC()).
		Where(squirrel.Eq{"status": domain.StatusConfirmed}).
		Where(squirrel.Lt{"end_time": now.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CompletePast - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CompletePast - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CompletePast - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

func (r *Repository) exists(ctx context.Context, id, shopID uuid.UUID) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	sub, args, err := psqlbuilder.Select("1").
		From("appointments").
		Where(squirrel.Eq{"id": id, "shop_id": shopID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var exists bool
	if err := executor.QueryRowContext(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}
	return exists, nil
}

func (r *Repository) getDetails(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.AppointmentDetails, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := detailsSelect().Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	details, err := scanDetails(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan appointment: %v", ErrScanRow, op, err)
	}

	return details, nil
}

func detailsSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(detailsColumns...).
		From("appointments a").
		Join("shops s ON s.id = a.shop_id").
		Join("professionals p ON p.id = a.professional_id").
		LeftJoin("services sv ON sv.id = a.service_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanDetails сканирует строку detailsSelect
func scanDetails(row rowScanner) (*domain.AppointmentDetails, error) {
	var (
		d                    domain.AppointmentDetails
		createdAt, updatedAt sql.NullTime
		serviceID            uuid.NullUUID
		serviceName          sql.NullString
		serviceDuration      sql.NullInt64
		service              domain.Service
	)

	a := &d.Appointment
	err := row.Scan(
		&a.ID,
		&a.ShopID,
		&a.ProfessionalID,
		&a.ServiceID,
		&a.StartTime,
		&a.EndTime,
		&a.CustomerName,
		&a.CustomerPhone,
		&a.CustomerEmail,
		&a.Notes,
		&a.Status,
		&a.CancellationToken,
		&a.CancelledAt,
		&createdAt,
		&updatedAt,
		&d.Shop.ID,
		&d.Shop.Name,
		&d.Shop.Slug,
		&d.Shop.Timezone,
		&d.Shop.WebhookURL,
		&d.Shop.WebhookEnabled,
		&d.Professional.ID,
		&d.Professional.ShopID,
		&d.Professional.Name,
		&d.Professional.BufferTimeMinutes,
		&d.Professional.IsActive,
		&serviceID,
		&serviceName,
		&serviceDuration,
		&service.Price,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	if serviceID.Valid {
		service.ID = serviceID.UUID
		service.ShopID = a.ShopID
		service.Name = serviceName.String
		service.DurationMinutes = int(serviceDuration.Int64)
		d.Service = &service
	}

	return &d, nil
}
