package catalog

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Category{},
		&models.ProductType{},
		&models.SportType{},
		&models.Material{},
		&models.Product{},
		&models.ProductSize{},
	); err != nil {
		t.Fatalf("migrate catalog tables: %v", err)
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
	return logger.New(logger.Options{ServiceName: "catalog-test", Level: logger.ParseLevel("error"), Output: io.Discard})
}

func mustCreateTaxonomies(t *testing.T, db *gorm.DB) (models.Category, models.ProductType, models.SportType, models.Material) {
	t.Helper()
	category := models.Category{Name: "Men's Clothing " + uuid.NewString()[:8]}
	productType := models.ProductType{Name: "T-Shirt " + uuid.NewString()[:8]}
	sportType := models.SportType{Name: "Running " + uuid.NewString()[:8]}
	material := models.Material{Name: "Cotton " + uuid.NewString()[:8]}
	for _, row := range []any{&category, &productType, &sportType, &material} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed taxonomy: %v", err)
		}
	}
	return category, productType, sportType, material
}

func mustCreateTestProduct(t *testing.T, db *gorm.DB, opts ...func(*models.Product)) *models.Product {
	t.Helper()
	category, productType, sportType, material := mustCreateTaxonomies(t, db)
	product := &models.Product{
		ID:            uuid.New(),
		Name:          "Trail Shirt",
		Description:   "Lightweight trail running shirt",
		ArticleNumber: fmt.Sprintf("SX-%s", uuid.NewString()[:12]),
		Brand:         "spoXpro",
		Color:         "blue",
		Gender:        enums.GenderUnisex,
		PriceCents:    4990,
		CategoryID:    category.ID,
		ProductTypeID: productType.ID,
		SportTypeID:   sportType.ID,
		MaterialID:    material.ID,
	}
	for _, opt := range opts {
		opt(product)
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
