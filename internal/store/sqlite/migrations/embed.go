// Package migrations holds the SQLite dialect of db/migrations. Versions
// match the Postgres files one to one.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
