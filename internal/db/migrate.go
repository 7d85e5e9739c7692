package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type migration struct {
	name string
	sql  []byte
}

// RunMigrations applies the schema migrations in name order. When dir is
// non-empty and exists, its .sql files take precedence over the copies
// embedded in the binary.
func RunMigrations(db *sql.DB, dir string) error {
	ms, err := loadMigrations(dir)
	if err != nil {
		return err
	}
	for _, m := range ms {
		if len(m.sql) == 0 {
			continue
		}
		if _, err := db.Exec(string(m.sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.name, err)
		}
	}
	return nil
}

func loadMigrations(dir string) ([]migration, error) {
	if dir != "" {
		ms, err := readMigrationDir(os.DirFS(dir))
		if err == nil {
			return ms, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read migrations from %s: %w", dir, err)
		}
	}
	embedded, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return nil, err
	}
	return readMigrationDir(embedded)
}

func readMigrationDir(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var ms []migration
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".sql" {
			continue
		}
		data, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		ms = append(ms, migration{name: e.Name(), sql: data})
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].name < ms[j].name })
	return ms, nil
}
