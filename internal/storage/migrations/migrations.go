// Package migrations embeds the goose SQL migrations for both storage
// backends. The sqlite and postgres directories carry the same schema in
// their respective dialects.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
