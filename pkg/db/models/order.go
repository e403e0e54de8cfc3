package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

// Order is a completed checkout. Only Status may change after creation.
type Order struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status          enums.OrderStatus `gorm:"column:status;size:20;not null;index"`
	TotalCents      int               `gorm:"column:total_cents;not null"`
	ShippingAddress string            `gorm:"column:shipping_address;type:text;not null"`
	Items           []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
