// Package migrations embeds the goose SQL migrations of the identity server.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
