package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

// ItemDTO is one purchased line. The unit price is the value frozen at
// checkout, not the product's current price.
type ItemDTO struct {
	ProductID            uuid.UUID  `json:"product_id"`
	Name                 string     `json:"name"`
	ArticleNumber        string     `json:"article_number"`
	Size                 enums.Size `json:"size"`
	Quantity             int        `json:"quantity"`
	PriceAtPurchaseCents int        `json:"price_at_purchase_cents"`
	LineTotalCents       int        `json:"line_total_cents"`
}

// OrderDTO is the full order detail.
type OrderDTO struct {
	ID              uuid.UUID         `json:"id"`
	Status          enums.OrderStatus `json:"status"`
	TotalCents      int               `json:"total_cents"`
	ShippingAddress string            `json:"shipping_address"`
	Items           []ItemDTO         `json:"items"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// SummaryDTO is the list-view shape of an order.
type SummaryDTO struct {
	ID         uuid.UUID         `json:"id"`
	Status     enums.OrderStatus `json:"status"`
	TotalCents int               `json:"total_cents"`
	ItemCount  int               `json:"item_count"`
	CreatedAt  time.Time         `json:"created_at"`
}

// ListResult is one cursor page of a user's order history.
type ListResult struct {
	Orders     []SummaryDTO `json:"orders"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// AdminSummaryDTO extends the list row with the owning customer, which the
// back office needs and the customer-facing history omits.
type AdminSummaryDTO struct {
	SummaryDTO
	UserID uuid.UUID `json:"user_id"`
}

// AdminListResult is one cursor page across all customers' orders.
type AdminListResult struct {
	Orders     []AdminSummaryDTO `json:"orders"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

func summaryFromModel(order models.Order) SummaryDTO {
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}
	return SummaryDTO{
		ID:         order.ID,
		Status:     order.Status,
		TotalCents: order.TotalCents,
		ItemCount:  itemCount,
		CreatedAt:  order.CreatedAt,
	}
}
