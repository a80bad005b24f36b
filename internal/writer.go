package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type WriteStatus string

const (
	Created     WriteStatus = "created"
	Overwritten WriteStatus = "overwritten"
	Skipped     WriteStatus = "skipped"
)

type WriteResult struct {
	Path   string
	Status WriteStatus
}

// PlanStatus reports what WriteProject would do with a file at path
// without touching the disk.
func PlanStatus(dir string, file File, overwrite bool) (WriteStatus, error) {
	_, err := os.Stat(filepath.Join(dir, filepath.FromSlash(file.Path)))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return Created, nil
	case err != nil:
		return "", err
	case overwrite:
		return Overwritten, nil
	default:
		return Skipped, nil
	}
}

// WriteProject writes files under dir. Existing files are left untouched
// unless overwrite is set.
func WriteProject(dir string, files []File, overwrite bool) ([]WriteResult, error) {
	results := make([]WriteResult, 0, len(files))
	for _, file := range files {
		status, err := PlanStatus(dir, file, overwrite)
		if err != nil {
			return results, fmt.Errorf("stat %s: %w", file.Path, err)
		}
		if status != Skipped {
			if err := writeFile(filepath.Join(dir, filepath.FromSlash(file.Path)), file.Content); err != nil {
				return results, err
			}
		}
		results = append(results, WriteResult{Path: file.Path, Status: status})
	}
	return results, nil
}

func writeFile(filePath, content string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filePath, err)
	}
	if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}
	return nil
}
