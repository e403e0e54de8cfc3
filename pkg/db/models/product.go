package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/pkg/enums"
)

// Product is a catalog listing. Per-size stock lives on ProductSize rows.
type Product struct {
	ID              uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Name            string        `gorm:"column:name;size:200;not null;index"`
	Description     string        `gorm:"column:description;type:text;not null"`
	ArticleNumber   string        `gorm:"column:article_number;size:50;not null;uniqueIndex"`
	Brand           string        `gorm:"column:brand;size:100;not null;default:'spoXpro'"`
	Color           string        `gorm:"column:color;size:50;not null;index"`
	Gender          enums.Gender  `gorm:"column:gender;size:10;not null;index"`
	PriceCents      int           `gorm:"column:price_cents;not null"`
	DiscountPercent int           `gorm:"column:discount_percent;not null;default:0"`
	ViewCount       int           `gorm:"column:view_count;not null;default:0"`
	CategoryID      uint          `gorm:"column:category_id;not null;index"`
	ProductTypeID   uint          `gorm:"column:product_type_id;not null;index"`
	SportTypeID     uint          `gorm:"column:sport_type_id;not null;index"`
	MaterialID      uint          `gorm:"column:material_id;not null;index"`
	Category        *Category     `gorm:"foreignKey:CategoryID"`
	ProductType     *ProductType  `gorm:"foreignKey:ProductTypeID"`
	SportType       *SportType    `gorm:"foreignKey:SportTypeID"`
	Material        *Material     `gorm:"foreignKey:MaterialID"`
	Sizes           []ProductSize `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}
