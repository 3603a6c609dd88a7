package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/velocart/app/routes"
	"github.com/shashiranjanraj/velocart/internal/kernel"
	"github.com/shashiranjanraj/velocart/internal/server"
	"github.com/shashiranjanraj/velocart/pkg/router"
)

// velocart serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		app, err := server.New(ctx)
		if err != nil {
			return err
		}
		return app.Run(ctx)
	},
}

// velocart route:list
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered named routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printRoutes(cmd.OutOrStdout())
	},
}

func printRoutes(out io.Writer) error {
	// Only the route table is needed; handlers are never invoked.
	r := kernel.NewRouter(func(r *router.Router) {
		routes.RegisterAPI(r, routes.Deps{GraphQL: http.NotFoundHandler()})
	})

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME")
	fmt.Fprintln(w, "------\t----\t----")
	for _, ri := range r.Routes() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
	}
	return w.Flush()
}
