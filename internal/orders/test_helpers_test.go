package orders

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/internal/catalog"
	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
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
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("migrate order tables: %v", err)
	}
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "orders-test", Level: logger.ParseLevel("error"), Output: io.Discard})
	svc, err := NewService(NewRepository(db), catalog.NewRepository(db), gormTxRunner{db: db}, logg)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, db
}

func mustCreateTestProduct(t *testing.T, db *gorm.DB) *models.Product {
	t.Helper()
	category := models.Category{Name: "Men's Clothing " + uuid.NewString()[:8]}
	productType := models.ProductType{Name: "Hoodie " + uuid.NewString()[:8]}
	sportType := models.SportType{Name: "Training " + uuid.NewString()[:8]}
	material := models.Material{Name: "Fleece " + uuid.NewString()[:8]}
	for _, row := range []any{&category, &productType, &sportType, &material} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed taxonomy: %v", err)
		}
	}
	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Gym Hoodie",
		Description:   "Heavyweight training hoodie",
		ArticleNumber: fmt.Sprintf("SX-%s", uuid.NewString()[:12]),
		Brand:         "spoXpro",
		Color:         "grey",
		Gender:        enums.GenderMale,
		PriceCents:    7990,
		CategoryID:    category.ID,
		ProductTypeID: productType.ID,
		SportTypeID:   sportType.ID,
		MaterialID:    material.ID,
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

func mustCreateOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.OrderStatus, items ...models.OrderItem) *models.Order {
	t.Helper()
	total := 0
	for _, item := range items {
		total += item.PriceAtPurchaseCents * item.Quantity
	}
	order := &models.Order{
		UserID:          userID,
		Status:          status,
		TotalCents:      total,
		ShippingAddress: "1 Arena Way, Springfield",
		Items:           items,
	}
	if err := NewRepository(db).Create(context.Background(), order); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return order
}
