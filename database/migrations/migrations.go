// Package migrations holds the relational schema of the catalog. Each file
// registers its migrations with migration.Register from init(); the CLI
// imports this package for the side effect.
package migrations
