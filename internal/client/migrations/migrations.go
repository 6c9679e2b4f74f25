// Package migrations embeds the SQL migrations of the local state database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
