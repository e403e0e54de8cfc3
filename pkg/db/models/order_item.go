package models

import (
	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

// OrderItem snapshots one purchased line. PriceAtPurchaseCents is the
// discounted unit price frozen at checkout and is never recomputed.
type OrderItem struct {
	ID                   uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OrderID              uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID            uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	Size                 enums.Size `gorm:"column:size;size:10;not null"`
	Quantity             int        `gorm:"column:quantity;not null"`
	PriceAtPurchaseCents int        `gorm:"column:price_at_purchase_cents;not null"`
}
