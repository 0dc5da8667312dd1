package migrations

import "embed"

// MigrationsFS embeds the goose SQL migrations so the binary is
// self-migrating.
//
//go:embed *.sql
var MigrationsFS embed.FS
