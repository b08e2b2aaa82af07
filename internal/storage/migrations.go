package storage

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/finhealth/pkg/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the embedded schema migrations in version order.
// Files are named NNN_name.sql.
func Migrations() ([]database.Migration, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	var out []database.Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m, err := parseMigrationName(e.Name())
		if err != nil {
			return nil, err
		}
		data, err := migrationFiles.ReadFile(path.Join("migrations", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		m.SQL = string(data)
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func parseMigrationName(filename string) (database.Migration, error) {
	base := strings.TrimSuffix(filename, ".sql")
	num, name, ok := strings.Cut(base, "_")
	if !ok {
		return database.Migration{}, fmt.Errorf("migration %q: expected NNN_name.sql", filename)
	}
	version, err := strconv.Atoi(num)
	if err != nil || version <= 0 {
		return database.Migration{}, fmt.Errorf("migration %q: bad version %q", filename, num)
	}
	return database.Migration{Version: version, Name: name}, nil
}
