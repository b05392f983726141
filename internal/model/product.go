package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type ProductCategory string

const (
	CategoryRanks   ProductCategory = "ranks"
	CategoryKeys    ProductCategory = "keys"
	CategoryBundles ProductCategory = "bundles"
)

type Product struct {
	ID            uint                         `gorm:"primaryKey" json:"id"`
	Name          string                       `gorm:"size:255;not null" json:"name"`
	Price         decimal.Decimal              `gorm:"type:decimal(8,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal          `gorm:"type:decimal(8,2)" json:"original_price"`
	ImageURL      string                       `gorm:"size:512" json:"image_url"`
	Duration      string                       `gorm:"size:64" json:"duration"`
	ShortDesc     string                       `gorm:"type:text" json:"short_desc"`
	Description   string                       `gorm:"type:text" json:"description"`
	Features      datatypes.JSONType[[]string] `json:"features"`
	Contents      datatypes.JSONType[[]string] `json:"contents"`
	Color         string                       `gorm:"size:32" json:"color"`
	Category      ProductCategory              `gorm:"size:32;index;not null" json:"category"`
	Discount      *int                         `json:"discount"`
	Featured      bool                         `gorm:"not null;default:false" json:"featured"`
	Popular       bool                         `gorm:"not null;default:false" json:"popular"`
	BestOffer     bool                         `gorm:"not null;default:false" json:"best_offer"`
	CreatedAt     time.Time                    `json:"created_at"`
	UpdatedAt     time.Time                    `json:"updated_at"`
}

type CategoryCount struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

type FilterCombinations struct {
	FeaturedPopular   int64 `json:"featured_popular"`
	FeaturedBestOffer int64 `json:"featured_best_offer"`
	PopularBestOffer  int64 `json:"popular_best_offer"`
	AllThree          int64 `json:"all_three"`
}

type FilterStats struct {
	TotalProducts  int64              `json:"total_products"`
	ByCategory     map[string]int64   `json:"by_category"`
	FeaturedCount  int64              `json:"featured_count"`
	PopularCount   int64              `json:"popular_count"`
	BestOfferCount int64              `json:"best_offer_count"`
	Combinations   FilterCombinations `json:"combinations"`
}
