package shop

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

var shopColumns = []string{
	"id",
	"name",
	"slug",
	"COALESCE(timezone, '')",
	"api_key_n8n",
	"webhook_url",
	"webhook_enabled",
	"created_at",
}

// Repository репозиторий магазинов (тенантов)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория магазинов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает магазин по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Shop, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByAPIKey получает магазин по API ключу внешней интеграции
func (r *Repository) GetByAPIKey(ctx context.Context, apiKey string) (*domain.Shop, error) {
	if apiKey == "" {
		return nil, ErrShopNotFound
	}
	return r.getOne(ctx, "GetByAPIKey", squirrel.Eq{"api_key_n8n": apiKey})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Shop, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectShopQuery(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var shop domain.Shop
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&shop.ID,
		&shop.Name,
		&shop.Slug,
		&shop.Timezone,
		&shop.APIKey,
		&shop.WebhookURL,
		&shop.WebhookEnabled,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan shop: %v", ErrScanRow, op, err)
	}

	shop.CreatedAt = createdAt.Time

	return &shop, nil
}

func selectShopQuery(where squirrel.Sqlizer) squirrel.SelectBuilder {
	return psqlbuilder.Select(shopColumns...).
		From("shops").
		Where(where)
}
