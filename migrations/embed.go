// Package migrations embeds the SQL schema.
package migrations

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

// Files embeds the migration scripts.
//
//go:embed *.sql
var Files embed.FS

// Up returns the names of the forward migrations in apply order.
func Up() ([]string, error) {
	names, err := fs.Glob(Files, "*.up.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Version extracts the numeric prefix of a migration file name.
func Version(name string) string {
	version, _, _ := strings.Cut(name, "_")
	return version
}
