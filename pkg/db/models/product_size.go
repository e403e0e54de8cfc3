package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

// ProductSize tracks available stock for one size of one product.
// Quantity is only ever decremented through the catalog's
// compare-and-decrement statement, so it can never go negative.
type ProductSize struct {
	ProductID uuid.UUID  `gorm:"column:product_id;type:uuid;primaryKey"`
	Size      enums.Size `gorm:"column:size;size:10;primaryKey"`
	Quantity  int        `gorm:"column:quantity;not null;default:0"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
