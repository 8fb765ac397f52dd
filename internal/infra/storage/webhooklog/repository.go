package webhooklog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-TurneroService/internal/domain"
	"github.com/m04kA/SMC-TurneroService/pkg/dbmetrics"
	"github.com/m04kA/SMC-TurneroService/pkg/psqlbuilder"
)

// Repository журнал доставки вебхуков
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала доставки
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет результат доставки
func (r *Repository) Create(ctx context.Context, delivery *domain.WebhookDelivery) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if delivery.ID == uuid.Nil {
		delivery.ID = uuid.New()
	}

	query, args, err := insertDeliveryQuery(delivery).ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	delivery.CreatedAt = createdAt.Time

	return nil
}

func insertDeliveryQuery(delivery *domain.WebhookDelivery) squirrel.InsertBuilder {
	return psqlbuilder.Insert("webhook_logs").
		Columns(
			"id",
			"shop_id",
			"event_type",
			"payload",
			"url",
			"status_code",
			"success",
			"error_message",
			"attempts",
		).
		Values(
			delivery.ID,
			delivery.ShopID,
			delivery.EventType,
			string(delivery.Payload),
			delivery.URL,
			delivery.StatusCode,
			delivery.Success,
			delivery.ErrorMessage,
			delivery.Attempts,
		).
		Suffix("RETURNING created_at")
}
