package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Documents are keyed by ID in every backend.
type Product struct {
	ID                 string    `json:"id"                 bson:"_id"                gorm:"primaryKey;size:64"`
	Name               string    `json:"name"               bson:"name"               gorm:"size:200;not null"`
	NameLower          string    `json:"-"                  bson:"nameLower"          gorm:"size:200;index"`
	Category           string    `json:"category"           bson:"category"           gorm:"size:100;index"`
	SubCategory        string    `json:"subCategory"        bson:"subCategory"        gorm:"size:100;index"`
	Brand              string    `json:"brand,omitempty"    bson:"brand"              gorm:"size:100;index"`
	Price              float64   `json:"price"              bson:"price"              gorm:"not null;default:0;index"`
	ActualPrice        float64   `json:"actualPrice"        bson:"actualPrice"        gorm:"not null;default:0"`
	DiscountPercentage *float64  `json:"discountPercentage" bson:"discountPercentage"`
	Rating             float64   `json:"rating"             bson:"rating"             gorm:"not null;default:0;index"`
	Inventory          int       `json:"inventory"          bson:"inventory"          gorm:"not null;default:1"`
	IsRecommended      bool      `json:"isRecommended"      bson:"isRecommended"      gorm:"not null;default:false"`
	Images             []string  `json:"images"             bson:"images"             gorm:"serializer:json"`
	ShortDescription   string    `json:"shortDescription"   bson:"shortDescription"   gorm:"size:500"`
	Details            string    `json:"details"            bson:"details"            gorm:"type:text"`
	CreatedAt          time.Time `json:"createdAt"          bson:"createdAt"          gorm:"index"`
	UpdatedAt          time.Time `json:"updatedAt"          bson:"updatedAt"`
}

// Normalize maintains the derived fields: nameLower, the selling price and a
// non-nil image list.
func (p *Product) Normalize() {
	p.NameLower = strings.ToLower(p.Name)
	p.Price = SellingPrice(p.ActualPrice, p.DiscountPercentage)
	if p.Images == nil {
		p.Images = []string{}
	}
}

// PrimaryImage returns the first image URL or "".
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// SellingPrice applies discount (percent) to actual, rounded half-up to cents.
func SellingPrice(actual float64, discount *float64) float64 {
	price := decimal.NewFromFloat(actual)
	if discount != nil && *discount > 0 {
		off := decimal.NewFromFloat(*discount).Div(decimal.NewFromInt(100))
		price = price.Mul(decimal.NewFromInt(1).Sub(off))
	}
	f, _ := price.Round(2).Float64()
	return f
}
