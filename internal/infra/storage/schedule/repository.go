package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurneroService/pkg/psqlbuilder"
)

// Repository репозиторий расписаний и исключений специалистов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListSchedules получает все интервалы работы специалиста в указанный день недели
// Несколько строк на один день означают разделенную смену, порядок по времени начала
func (r *Repository) ListSchedules(ctx context.Context, professionalID uuid.UUID, dayOfWeek int) ([]domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"professional_id",
		"day_of_week",
		"start_time",
		"end_time",
	).
		From("schedules").
		Where(squirrel.Eq{"professional_id": professionalID, "day_of_week": dayOfWeek}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSchedules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListSchedules - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]domain.Schedule, 0)
	for rows.Next() {
		var s domain.Schedule
		if err := rows.Scan(&s.ID, &s.ProfessionalID, &s.DayOfWeek, &s.StartTime, &s.EndTime); err != nil {
			return nil, fmt.Errorf("%w: ListSchedules - scan row: %v", ErrScanRow, err)
		}
		schedules = append(schedules, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListSchedules - rows error: %v", ErrScanRow, err)
	}

	return schedules, nil
}

// ListExceptions получает исключения специалиста на календарную дату
func (r *Repository) ListExceptions(ctx context.Context, professionalID uuid.UUID, date time.Time) ([]domain.ScheduleException, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"professional_id",
		"specific_date",
		"start_time",
		"end_time",
		"is_blocked",
	).
		From("exceptions").
		Where(squirrel.Eq{"professional_id": professionalID, "specific_date": date.Format(domain.DateFormat)}).
		OrderBy("start_time ASC NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	exceptions := make([]domain.ScheduleException, 0)
	for rows.Next() {
		var e domain.ScheduleException
		err := rows.Scan(
			&e.ID,
			&e.ProfessionalID,
			&e.SpecificDate,
			&e.StartTime,
			&e.EndTime,
			&e.IsBlocked,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListExceptions - scan row: %v", ErrScanRow, err)
		}
		exceptions = append(exceptions, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListExceptions - rows error: %v", ErrScanRow, err)
	}

	return exceptions, nil
}
