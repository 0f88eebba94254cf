// Package migrations embeds the SQL migration files compiled into the
// binary and applied on startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
