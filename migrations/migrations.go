// Package migrations embeds the schema migrations for every SQL backend. Each
// dialect lives in its own directory and is read through golang-migrate's iofs source.
package migrations

import "embed"

// FS holds postgres/*.sql and sqlite/*.sql.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
