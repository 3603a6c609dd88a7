package controllers

import (
	"github.com/shashiranjanraj/velocart/app/services"
	"github.com/shashiranjanraj/velocart/pkg/ctx"
)

type TaxonomyController struct {
	taxonomy *services.TaxonomyService
}

func NewTaxonomyController(taxonomy *services.TaxonomyService) *TaxonomyController {
	return &TaxonomyController{taxonomy: taxonomy}
}

func (tc *TaxonomyController) Index(c *ctx.Context) {
	tax, err := tc.taxonomy.Taxonomy(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(tax)
}

func (tc *TaxonomyController) Brands(c *ctx.Context) {
	brands, err := tc.taxonomy.Brands(c.Context(), c.Param("category"), c.Param("subcategory"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string][]string{"brands": brands})
}

func (tc *TaxonomyController) AddBrand(c *ctx.Context) {
	var in services.BrandInput
	if !c.BindJSON(&in) {
		return
	}
	brands, err := tc.taxonomy.AddBrand(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string][]string{"brands": brands})
}

func (tc *TaxonomyController) RemoveBrand(c *ctx.Context) {
	var in services.BrandInput
	if !c.BindJSON(&in) {
		return
	}
	brands, err := tc.taxonomy.RemoveBrand(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string][]string{"brands": brands})
}
