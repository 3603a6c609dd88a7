package seeders

import (
	"context"
	"time"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/models"
)

func init() {
	Register("categories", SeedCategories)
	Register("products", SeedProducts)
}

var demoTaxonomy = []models.Category{
	{Name: "Bikes", SubCategories: []models.SubCategory{
		{Name: "Mountain", Brands: []string{"Giant", "Santa Cruz", "Trek"}},
		{Name: "Road", Brands: []string{"Cannondale", "Specialized", "Trek"}},
		{Name: "Gravel", Brands: []string{"Canyon", "Specialized"}},
	}},
	{Name: "Components", SubCategories: []models.SubCategory{
		{Name: "Drivetrain", Brands: []string{"Shimano", "SRAM"}},
		{Name: "Brakes", Brands: []string{"Magura", "Shimano", "SRAM"}},
	}},
	{Name: "Apparel", SubCategories: []models.SubCategory{
		{Name: "Helmets", Brands: []string{"Giro", "POC"}},
		{Name: "Jerseys", Brands: []string{"Castelli", "Rapha"}},
	}},
}

func pct(v float64) *float64 { return &v }

var demoProducts = []models.Product{
	{Name: "Marlin 7", Category: "Bikes", SubCategory: "Mountain", Brand: "Trek", ActualPrice: 1099.99, DiscountPercentage: pct(10), Rating: 4.6, Inventory: 12, IsRecommended: true},
	{Name: "Talon 1", Category: "Bikes", SubCategory: "Mountain", Brand: "Giant", ActualPrice: 949, Rating: 4.3, Inventory: 8},
	{Name: "Hightower", Category: "Bikes", SubCategory: "Mountain", Brand: "Santa Cruz", ActualPrice: 5399, Rating: 4.9, Inventory: 2, IsRecommended: true},
	{Name: "SuperSix EVO", Category: "Bikes", SubCategory: "Road", Brand: "Cannondale", ActualPrice: 3799, DiscountPercentage: pct(15), Rating: 4.7, Inventory: 4},
	{Name: "Domane AL 2", Category: "Bikes", SubCategory: "Road", Brand: "Trek", ActualPrice: 1199.99, Rating: 4.1, Inventory: 15},
	{Name: "Grail CF 7", Category: "Bikes", SubCategory: "Gravel", Brand: "Canyon", ActualPrice: 2999, Rating: 4.5, Inventory: 6},
	{Name: "Diverge E5", Category: "Bikes", SubCategory: "Gravel", Brand: "Specialized", ActualPrice: 1300, DiscountPercentage: pct(5), Rating: 4.2, Inventory: 9},
	{Name: "Deore M6100 Groupset", Category: "Components", SubCategory: "Drivetrain", Brand: "Shimano", ActualPrice: 449.95, Rating: 4.4, Inventory: 30},
	{Name: "GX Eagle Cassette", Category: "Components", SubCategory: "Drivetrain", Brand: "SRAM", ActualPrice: 239, Rating: 4.0, Inventory: 25},
	{Name: "MT5 Disc Brake", Category: "Components", SubCategory: "Brakes", Brand: "Magura", ActualPrice: 129.9, Rating: 4.8, Inventory: 40},
	{Name: "Aether MIPS", Category: "Apparel", SubCategory: "Helmets", Brand: "Giro", ActualPrice: 299.95, DiscountPercentage: pct(20), Rating: 4.6, Inventory: 18},
	{Name: "Core Jersey", Category: "Apparel", SubCategory: "Jerseys", Brand: "Rapha", ActualPrice: 95, Rating: 3.9, Inventory: 50},
}

// SeedCategories upserts the demo category tree.
func SeedCategories(ctx context.Context, t Target) error {
	for _, c := range demoTaxonomy {
		if err := t.Taxonomy.PutCategory(ctx, c.Clone()); err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts inserts the demo products into an empty catalog. A catalog
// that already has products is left alone.
func SeedProducts(ctx context.Context, t Target) error {
	q, err := catalog.NewBuilder().Limit(1).Build()
	if err != nil {
		return err
	}
	existing, err := t.Store.Find(ctx, q, nil)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	// Stagger creation times so the newest-first admin listing is stable.
	base := time.Now().UTC().Add(-time.Duration(len(demoProducts)) * time.Hour)
	for i, p := range demoProducts {
		p.Images = []string{}
		p.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		p.UpdatedAt = p.CreatedAt
		p.Normalize()
		if err := t.Store.Create(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
