package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

// Repository exposes cart line persistence keyed by owner.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repo bound to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) scopeOwner(q *gorm.DB, owner Owner) (*gorm.DB, error) {
	if !owner.Valid() {
		return nil, fmt.Errorf("cart owner must set exactly one key")
	}
	if owner.UserID != nil {
		return q.Where("user_id = ?", *owner.UserID), nil
	}
	return q.Where("guest_token = ?", *owner.GuestToken), nil
}

// ListItems returns every cart line for the owner, oldest first.
func (r *Repository) ListItems(ctx context.Context, owner Owner) ([]models.CartItem, error) {
	q, err := r.scopeOwner(r.db.WithContext(ctx), owner)
	if err != nil {
		return nil, err
	}
	var rows []models.CartItem
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindItem loads one cart line, returning gorm.ErrRecordNotFound when missing.
func (r *Repository) FindItem(ctx context.Context, owner Owner, productID uuid.UUID, size enums.Size) (*models.CartItem, error) {
	q, err := r.scopeOwner(r.db.WithContext(ctx), owner)
	if err != nil {
		return nil, err
	}
	var row models.CartItem
	if err := q.Where("product_id = ? AND size = ?", productID, size).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateItem inserts a new cart line for the owner.
func (r *Repository) CreateItem(ctx context.Context, owner Owner, productID uuid.UUID, size enums.Size, qty int) (*models.CartItem, error) {
	if !owner.Valid() {
		return nil, fmt.Errorf("cart owner must set exactly one key")
	}
	item := &models.CartItem{
		ID:         uuid.New(),
		UserID:     owner.UserID,
		GuestToken: owner.GuestToken,
		ProductID:  productID,
		Size:       size,
		Quantity:   qty,
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity overwrites the quantity on an existing line.
func (r *Repository) UpdateQuantity(ctx context.Context, itemID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", qty).Error
}

// DeleteItem removes one line. Deleting an absent line is not an error.
func (r *Repository) DeleteItem(ctx context.Context, owner Owner, productID uuid.UUID, size enums.Size) (bool, error) {
	q, err := r.scopeOwner(r.db.WithContext(ctx), owner)
	if err != nil {
		return false, err
	}
	result := q.Where("product_id = ? AND size = ?", productID, size).Delete(&models.CartItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Clear removes every line owned by the principal.
func (r *Repository) Clear(ctx context.Context, owner Owner) error {
	q, err := r.scopeOwner(r.db.WithContext(ctx), owner)
	if err != nil {
		return err
	}
	return q.Delete(&models.CartItem{}).Error
}

// DeleteByID removes a specific line by primary key.
func (r *Repository) DeleteByID(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&models.CartItem{}).Error
}

// DeleteGuestItemsOlderThan purges abandoned guest cart lines. Returns the
// number of rows removed.
func (r *Repository) DeleteGuestItemsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("guest_token IS NOT NULL AND updated_at < ?", cutoff).
		Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// lineRecord joins a cart line against its product for read paths.
type lineRecord struct {
	ProductID       uuid.UUID
	Name            string
	ArticleNumber   string
	Size            enums.Size
	Quantity        int
	PriceCents      int
	DiscountPercent int
	Available       int
	CreatedAt       time.Time
}

// ListLineRecords returns cart lines joined with current product pricing and
// the remaining stock for each line's size.
func (r *Repository) ListLineRecords(ctx context.Context, owner Owner) ([]lineRecord, error) {
	q := r.db.WithContext(ctx).
		Table("cart_items ci").
		Select("ci.product_id, p.name, p.article_number, ci.size, ci.quantity, " +
			"p.price_cents, p.discount_percent, COALESCE(ps.quantity, 0) AS available, ci.created_at").
		Joins("JOIN products p ON p.id = ci.product_id").
		Joins("LEFT JOIN product_sizes ps ON ps.product_id = ci.product_id AND ps.size = ci.size")

	q, err := r.scopeOwner(q, owner)
	if err != nil {
		return nil, err
	}

	var rows []lineRecord
	if err := q.Order("ci.created_at ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// IsNotFound reports whether the error is the repo's missing-row sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
