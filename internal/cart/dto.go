package cart

import (
	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

// LineDTO is one cart line priced at read time. UnitPriceCents always
// reflects the current product price and discount, never a stored value.
type LineDTO struct {
	ProductID         uuid.UUID  `json:"product_id"`
	Name              string     `json:"name"`
	ArticleNumber     string     `json:"article_number"`
	Size              enums.Size `json:"size"`
	Quantity          int        `json:"quantity"`
	UnitPriceCents    int        `json:"unit_price_cents"`
	LineTotalCents    int        `json:"line_total_cents"`
	AvailableQuantity int        `json:"available_quantity"`
}

// CartDTO is the assembled cart for one principal.
type CartDTO struct {
	Lines      []LineDTO `json:"lines"`
	TotalCents int       `json:"total_cents"`
	ItemCount  int       `json:"item_count"`
}
