package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurneroService/pkg/psqlbuilder"
)

// Repository репозиторий услуг и специалистов.
// Все выборки ограничены shop_id: сущность другого магазина считается несуществующей.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу магазина
func (r *Repository) GetService(ctx context.Context, id, shopID uuid.UUID) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectServiceQuery(id, shopID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.ShopID,
		&service.Name,
		&service.DurationMinutes,
		&service.Price,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

// GetProfessional получает специалиста магазина (включая неактивных)
func (r *Repository) GetProfessional(ctx context.Context, id, shopID uuid.UUID) (*domain.Professional, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectProfessionalQuery(id, shopID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - build select query: %v", ErrBuildQuery, err)
	}

	var professional domain.Professional
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&professional.ID,
		&professional.ShopID,
		&professional.Name,
		&professional.BufferTimeMinutes,
		&professional.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfessionalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetProfessional - scan professional: %v", ErrScanRow, err)
	}

	return &professional, nil
}

func selectServiceQuery(id, shopID uuid.UUID) squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"shop_id",
		"name",
		"duration_minutes",
		"price",
	).
		From("services").
		Where(squirrel.Eq{"id": id, "shop_id": shopID})
}

func selectProfessionalQuery(id, shopID uuid.UUID) squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"shop_id",
		"name",
		"buffer_time_minutes",
		"is_active",
	).
		From("professionals").
		Where(squirrel.Eq{"id": id, "shop_id": shopID})
}
