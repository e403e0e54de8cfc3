package models

// The four catalog lookup tables shoppers filter on.

// Category groups products by audience, e.g. "Men's Clothing".
type Category struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:100;not null;uniqueIndex"`
}

// ProductType names the garment kind, e.g. "T-Shirt", "Shorts".
type ProductType struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:100;not null;uniqueIndex"`
}

// SportType names the sport a product is designed for.
type SportType struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:100;not null;uniqueIndex"`
}

// Material names the primary fabric, e.g. "Cotton", "Mesh".
type Material struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;size:100;not null;uniqueIndex"`
}
