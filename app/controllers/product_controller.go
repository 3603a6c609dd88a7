package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/services"
	"github.com/shashiranjanraj/velocart/pkg/ctx"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Index serves GET /products.
func (pc *ProductController) Index(c *ctx.Context) {
	pc.list(c, catalog.StorefrontProfile)
}

// AdminIndex serves GET /admin/products.
func (pc *ProductController) AdminIndex(c *ctx.Context) {
	pc.list(c, catalog.AdminProfile)
}

func (pc *ProductController) list(c *ctx.Context, profile catalog.Profile) {
	listing, err := pc.products.List(c.Context(), c.Values(), profile)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Category serves GET /products/category/{category}/{subcategory}.
func (pc *ProductController) Category(c *ctx.Context) {
	listing, err := pc.products.ListCategory(c.Context(), c.Param("category"), c.Param("subcategory"), c.Values())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (pc *ProductController) Show(c *ctx.Context) {
	p, err := pc.products.Get(c.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Search(c *ctx.Context) {
	results, err := pc.products.Search(c.Context(), c.Values())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.products.Create(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(p)
}

func (pc *ProductController) Update(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.products.Update(c.Context(), c.Param("id"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(p)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	if err := pc.products.Delete(c.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
