// Package migrations embeds the versioned SQL schema so binaries and tests
// can migrate without a migrations directory on disk.
package migrations

import "embed"

// FS holds every NNNNNN_name.{up,down}.sql file in this directory.
//
//go:embed *.sql
var FS embed.FS
