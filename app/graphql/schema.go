// Package graphql exposes the catalog read operations as a GraphQL schema.
// Every resolver goes through the same services, normalisation and
// pagination as the REST endpoints.
package graphql

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/velocart/app/catalog"
	"github.com/shashiranjanraj/velocart/app/services"
	gql "github.com/shashiranjanraj/velocart/pkg/graphql"
	"github.com/shashiranjanraj/velocart/pkg/logger"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":                 &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":               &graphql.Field{Type: graphql.String},
		"category":           &graphql.Field{Type: graphql.String},
		"subCategory":        &graphql.Field{Type: graphql.String},
		"brand":              &graphql.Field{Type: graphql.String},
		"price":              &graphql.Field{Type: graphql.Float},
		"actualPrice":        &graphql.Field{Type: graphql.Float},
		"discountPercentage": &graphql.Field{Type: graphql.Float},
		"rating":             &graphql.Field{Type: graphql.Float},
		"inventory":          &graphql.Field{Type: graphql.Int},
		"isRecommended":      &graphql.Field{Type: graphql.Boolean},
		"images":             &graphql.Field{Type: graphql.NewList(graphql.String)},
		"shortDescription":   &graphql.Field{Type: graphql.String},
		"details":            &graphql.Field{Type: graphql.String},
		"createdAt":          &graphql.Field{Type: graphql.DateTime},
		"updatedAt":          &graphql.Field{Type: graphql.DateTime},
	},
})

var listingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ProductPage",
	Fields: graphql.Fields{
		"products":      &graphql.Field{Type: graphql.NewList(productType)},
		"hasMore":       &graphql.Field{Type: graphql.Boolean},
		"lastProductId": &graphql.Field{Type: graphql.ID},
	},
})

var searchResultType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SearchResult",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":        &graphql.Field{Type: graphql.String},
		"brand":       &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"rating":      &graphql.Field{Type: graphql.Float},
		"image":       &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"subCategory": &graphql.Field{Type: graphql.String},
	},
})

var subCategoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SubCategory",
	Fields: graphql.Fields{
		"name":   &graphql.Field{Type: graphql.String},
		"brands": &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"name":          &graphql.Field{Type: graphql.String},
		"subCategories": &graphql.Field{Type: graphql.NewList(subCategoryType)},
	},
})

// listingArgs mirror the REST listing query parameters.
func listingArgs() graphql.FieldConfigArgument {
	return graphql.FieldConfigArgument{
		"categories":   &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
		"brands":       &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
		"minPrice":     &graphql.ArgumentConfig{Type: graphql.Float},
		"maxPrice":     &graphql.ArgumentConfig{Type: graphql.Float},
		"sortBy":       &graphql.ArgumentConfig{Type: graphql.String},
		"pageSize":     &graphql.ArgumentConfig{Type: graphql.Int},
		"startAfterId": &graphql.ArgumentConfig{Type: graphql.ID},
	}
}

// NewSchema builds the read schema over the product and taxonomy services.
func NewSchema(products *services.ProductService, taxonomy *services.TaxonomyService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: listingType,
				Args: listingArgs(),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					out, err := products.List(p.Context, values(p.Args), catalog.StorefrontProfile)
					return out, resolverErr(p, err)
				},
			},
			"categoryProducts": &graphql.Field{
				Type: listingType,
				Args: withPath(listingArgs()),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					cat, _ := p.Args["category"].(string)
					sub, _ := p.Args["subcategory"].(string)
					out, err := products.ListCategory(p.Context, cat, sub, values(p.Args))
					return out, resolverErr(p, err)
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					out, err := products.Get(p.Context, id)
					return out, resolverErr(p, err)
				},
			},
			"search": &graphql.Field{
				Type: graphql.NewList(searchResultType),
				Args: graphql.FieldConfigArgument{
					"q":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					out, err := products.Search(p.Context, values(p.Args))
					if err != nil {
						return nil, resolverErr(p, err)
					}
					return out.Products, nil
				},
			},
			"taxonomy": &graphql.Field{
				Type: graphql.NewList(categoryType),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					tax, err := taxonomy.Taxonomy(p.Context)
					if err != nil {
						return nil, resolverErr(p, err)
					}
					return tax.Categories, nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

func withPath(args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	args["category"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	args["subcategory"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}
	delete(args, "categories")
	return args
}

// values renders resolver arguments as the query string the REST handlers
// receive, so both surfaces share one normaliser.
func values(args map[string]any) url.Values {
	v := url.Values{}
	for name, raw := range args {
		switch a := raw.(type) {
		case string:
			v.Set(name, a)
		case int:
			v.Set(name, strconv.Itoa(a))
		case float64:
			v.Set(name, strconv.FormatFloat(a, 'f', -1, 64))
		case []any:
			parts := make([]string, 0, len(a))
			for _, item := range a {
				if s, ok := item.(string); ok {
					parts = append(parts, s)
				}
			}
			v.Set(name, strings.Join(parts, ","))
		}
	}
	return v
}

// Error is a resolver failure carrying the catalog error kind as its code.
type Error struct {
	Code    string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

// Extensions implements gqlerrors.ExtendedError.
func (e *Error) Extensions() map[string]any {
	ext := map[string]any{"code": e.Code}
	if len(e.Fields) > 0 {
		ext["fields"] = e.Fields
	}
	return ext
}

func resolverErr(p graphql.ResolveParams, err error) error {
	if err == nil {
		return nil
	}
	var ce *catalog.Error
	if !errors.As(err, &ce) || ce.Kind == catalog.KindInternal {
		logger.WithCtx(p.Context).Error("graphql: resolver failed", "field", p.Info.FieldName, "error", err)
		return &Error{Code: catalog.KindInternal.String(), Message: "internal error"}
	}
	msg := ce.Msg
	if msg == "" {
		msg = ce.Kind.String()
	}
	if ce.Kind == catalog.KindUnavailable || ce.Kind == catalog.KindAccessDenied {
		logger.WithCtx(p.Context).Warn("graphql: store failure", "field", p.Info.FieldName, "error", err)
	}
	return &Error{Code: ce.Kind.String(), Message: fmt.Sprintf("%s: %s", p.Info.FieldName, msg), Fields: ce.Fields}
}
