// Package migrations embeds the goose SQL migrations for the Postgres
// backends. Apply them with pg.Migrate at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
