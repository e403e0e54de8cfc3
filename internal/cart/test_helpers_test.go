package cart

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/internal/identity"
	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.ProductType{},
		&models.SportType{},
		&models.Material{},
		&models.Product{},
		&models.ProductSize{},
		&models.CartItem{},
	); err != nil {
		t.Fatalf("migrate cart tables: %v", err)
	}
	// AutoMigrate cannot express the per-owner partial indexes, so create
	// them the way the production migration does.
	for _, stmt := range []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_user_line
			ON cart_items (user_id, product_id, size) WHERE user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_cart_items_guest_line
			ON cart_items (guest_token, product_id, size) WHERE guest_token IS NOT NULL`,
	} {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create cart index: %v", err)
		}
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-test", Level: logger.ParseLevel("error"), Output: io.Discard})
}

func mustCreateTestProduct(t *testing.T, db *gorm.DB, priceCents, discountPercent int) *models.Product {
	t.Helper()
	category := models.Category{Name: "Women's Clothing " + uuid.NewString()[:8]}
	productType := models.ProductType{Name: "Leggings " + uuid.NewString()[:8]}
	sportType := models.SportType{Name: "Yoga " + uuid.NewString()[:8]}
	material := models.Material{Name: "Polyester " + uuid.NewString()[:8]}
	for _, row := range []any{&category, &productType, &sportType, &material} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed taxonomy: %v", err)
		}
	}
	product := &models.Product{
		ID:              uuid.New(),
		Name:            "Studio Leggings",
		Description:     "High-waist studio leggings",
		ArticleNumber:   fmt.Sprintf("SX-%s", uuid.NewString()[:12]),
		Brand:           "spoXpro",
		Color:           "black",
		Gender:          enums.GenderFemale,
		PriceCents:      priceCents,
		DiscountPercent: discountPercent,
		CategoryID:      category.ID,
		ProductTypeID:   productType.ID,
		SportTypeID:     sportType.ID,
		MaterialID:      material.ID,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

func mustSeedSize(t *testing.T, db *gorm.DB, productID uuid.UUID, size enums.Size, qty int) {
	t.Helper()
	if err := db.Create(&models.ProductSize{ProductID: productID, Size: size, Quantity: qty}).Error; err != nil {
		t.Fatalf("seed size: %v", err)
	}
}

func userPrincipal(id uuid.UUID) identity.Principal {
	return identity.Principal{Kind: enums.PrincipalAuthenticated, UserID: id}
}

func guestPrincipal(token string) identity.Principal {
	return identity.Principal{Kind: enums.PrincipalGuest, GuestToken: token}
}
