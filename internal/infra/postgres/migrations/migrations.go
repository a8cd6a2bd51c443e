// Package migrations holds the bun schema migrations, one file per table.
package migrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()
