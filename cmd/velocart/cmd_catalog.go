package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/velocart/app/repositories"
	"github.com/shashiranjanraj/velocart/app/services"
	"github.com/shashiranjanraj/velocart/config"
	"github.com/shashiranjanraj/velocart/pkg/auth"
)

func brandCommand(use, short string, apply func(*services.TaxonomyService, context.Context, services.BrandInput) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <category> <subcategory> <brand>",
		Short: short,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, func(ctx context.Context, b *repositories.Backend) error {
				in := services.BrandInput{Category: args[0], SubCategory: args[1], Brand: args[2]}
				brands, err := apply(services.NewTaxonomyService(b.Taxonomy, config.StoreTimeout()), ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s / %s: %s\n", args[0], args[1], strings.Join(brands, ", "))
				return nil
			})
		},
	}
}

// velocart brand:add
var brandAddCmd = brandCommand("brand:add", "Add a brand to a subcategory", (*services.TaxonomyService).AddBrand)

// velocart brand:remove
var brandRemoveCmd = brandCommand("brand:remove", "Remove a brand from a subcategory", (*services.TaxonomyService).RemoveBrand)

// velocart admin:hash
var adminHashCmd = &cobra.Command{
	Use:   "admin:hash <password>",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}
