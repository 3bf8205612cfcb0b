// Package migrations embeds the goose SQL migrations so that cmd/migrate and
// the test helper apply the same schema without resolving paths on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
