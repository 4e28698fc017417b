package leadrelay

import (
	"embed"
	"io/fs"
)

// migrationsFS contains the relay schema migration tree, including the
// dialect alternative under data/sql/migrations/sqlite.
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration tree.
func GetMigrationsFS() fs.FS {
	return migrationsFS
}
