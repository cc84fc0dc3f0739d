package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
)

const upTemplate = `-- Migration: {{.Name}}
-- Created: {{.Timestamp}}

`

const downTemplate = `-- Rollback: {{.Name}}
-- Created: {{.Timestamp}}

`

type migrationData struct {
	Name      string
	Timestamp string
}

// CreateMigration writes a timestamped pair of .up.sql/.down.sql files
func CreateMigration(dir, name string) (string, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := time.Now().Format("20060102150405")
	base := fmt.Sprintf("%s_%s", version, sanitizeName(name))

	data := migrationData{
		Name:      name,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	upPath := filepath.Join(dir, base+".up.sql")
	if err := writeTemplate(upPath, upTemplate, data); err != nil {
		return "", "", err
	}

	downPath := filepath.Join(dir, base+".down.sql")
	if err := writeTemplate(downPath, downTemplate, data); err != nil {
		return "", "", err
	}

	return upPath, downPath, nil
}

// ListMigrations returns the up migration files in a directory, sorted by version
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func writeTemplate(path, tmpl string, data migrationData) error {
	t, err := template.New(filepath.Base(path)).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := t.Execute(f, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('_')
		}
	}
	return b.String()
}
