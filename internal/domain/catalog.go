package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is something a shop sells, with a fixed duration
type Service struct {
	ID              uuid.UUID
	ShopID          uuid.UUID
	Name            string
	DurationMinutes int
	Price           decimal.NullDecimal
}

// Professional is a staff member whose calendar is booked
type Professional struct {
	ID                uuid.UUID
	ShopID            uuid.UUID
	Name              string
	BufferTimeMinutes int // пауза после каждой записи
	IsActive          bool
}
