package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

// CartItem is one line of a shopper's cart. Exactly one of UserID and
// GuestToken is set; (owner, product, size) is unique, so re-adding the same
// product+size folds into the existing row.
type CartItem struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	GuestToken *string    `gorm:"column:guest_token;size:255;index"`
	ProductID  uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	Size       enums.Size `gorm:"column:size;size:10;not null"`
	Quantity   int        `gorm:"column:quantity;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
