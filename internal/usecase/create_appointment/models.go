package create_appointment

import (
	"time"

	"github.com/google/uuid"
)

// Source откуда пришла запись
type Source string

const (
	// SourceWidget публичный виджет; e-mail не обязателен
	SourceWidget Source = "widget"
	// SourceExternal внешняя автоматизация по API-ключу; e-mail обязателен
	SourceExternal Source = "external"
)

// Settings параметры создания записи
type Settings struct {
	PublicBaseURL      string // база для ссылки отмены
	CancellationSecret string // секрет для токенов отмены
}

// Request модель запроса на создание записи
type Request struct {
	Source         Source
	ShopID         uuid.UUID
	ServiceID      uuid.UUID
	ProfessionalID uuid.UUID
	StartTime      time.Time
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  *string
	Notes          *string
}

// Response модель ответа с созданной записью
type Response struct {
	ID                uuid.UUID
	Status            string
	StartTime         time.Time
	EndTime           time.Time
	Timezone          string
	CancellationToken string
	CancellationURL   string

	CustomerName  string
	CustomerPhone string
	CustomerEmail *string

	ProfessionalID   uuid.UUID
	ProfessionalName string
	ServiceID        uuid.UUID
	ServiceName      string

	CreatedAt time.Time
}
