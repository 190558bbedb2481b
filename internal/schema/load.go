package schema

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrNoSQLFiles indicates a schema directory held no loadable .sql files.
var ErrNoSQLFiles = errors.New("no .sql files found")

//go:embed sql/*.sql
var defaultFS embed.FS

// Default returns the embedded reservation-system schema.
func Default() ([]Statement, error) {
	stmts, err := loadFS(defaultFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("loading embedded schema: %w", err)
	}

	return stmts, nil
}

// Load reads statements from a schema file or a directory of schema files.
func Load(p string) ([]Statement, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", p, err)
	}

	if info.IsDir() {
		return LoadDir(p)
	}

	return LoadFile(p)
}

// LoadFile reads a single UTF-8 schema file and splits it into statements.
func LoadFile(p string) ([]Statement, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading schema file %s: %w", p, err)
	}

	return splitSource(string(data), filepath.Base(p), 0)
}

// LoadDir reads every *.sql file in dir, except *.down.sql, in lexical
// filename order. Ordinals run continuously across files.
func LoadDir(dir string) ([]Statement, error) {
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, dir string) ([]Statement, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading schema directory %s: %w", dir, err)
	}

	var (
		stmts []Statement
		files int
	)

	// fs.ReadDir returns entries sorted by filename.
	for _, entry := range entries {
		if !isSchemaFile(entry) {
			continue
		}

		files++

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading schema file %s: %w", entry.Name(), err)
		}

		fileStmts, err := splitSource(string(data), entry.Name(), len(stmts))
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, fileStmts...)
	}

	if files == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSQLFiles, dir)
	}

	return stmts, nil
}

func isSchemaFile(entry fs.DirEntry) bool {
	if entry.IsDir() {
		return false
	}

	name := entry.Name()

	return strings.HasSuffix(name, ".sql") && !strings.HasSuffix(name, ".down.sql")
}
