package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

const filePrefix = "report-"

// Persister writes reports to a scratch directory.
type Persister struct {
	Dir    string // target directory; os.TempDir() when empty
	Format Format
}

// Persist encodes r and writes it to <dir>/report-<uuid>.<ext>. The path is
// only returned once the whole report is on disk; on failure no report file
// is left behind.
func (p Persister) Persist(r Report) (string, error) {
	data, err := r.Encode(p.Format)
	if err != nil {
		return "", err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate report id: %w", err)
	}

	dir := p.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, filePrefix+id.String()+p.Format.Ext())

	f, err := os.CreateTemp(dir, "."+filePrefix+"*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to store report: %w", err)
	}
	return path, nil
}

// Load reads a report file written by Persist.
func Load(path string) (Report, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Report{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("failed to read report: %w", err)
	}
	r, err := Decode(format, data)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// List returns the report files stored in dir, sorted by name. A missing
// directory yields no reports.
func List(dir string) ([]string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		if _, err := FormatFromPath(name); err != nil {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	sort.Strings(paths)
	return paths, nil
}
