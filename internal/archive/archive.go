// Package archive tidies old test results out of the results directory.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ResultsPattern matches the files written at the end of a test
const ResultsPattern = "incorrects_*.txt"

// ArchiveResults moves every results file in dir into
// dir/archive/results-<timestamp>/ and returns that directory
func ArchiveResults(dir string) (string, error) {
	return archiveAt(dir, time.Now())
}

func archiveAt(dir string, now time.Time) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return "", fmt.Errorf("results directory does not exist: %s", dir)
	}

	files, err := filepath.Glob(filepath.Join(dir, ResultsPattern))
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no result files to archive in %s", dir)
	}

	archivePath := filepath.Join(dir, "archive", "results-"+now.Format("20060102-150405"))
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		archivePath = filepath.Join(dir, "archive", "results-"+now.Format("20060102-150405.000000"))
	}

	if err := os.MkdirAll(archivePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	for _, file := range files {
		target := filepath.Join(archivePath, filepath.Base(file))
		if err := os.Rename(file, target); err != nil {
			return "", fmt.Errorf("failed to archive %s: %w", filepath.Base(file), err)
		}
	}

	fmt.Printf("Archived %d result file(s) to: %s\n", len(files), archivePath)
	return archivePath, nil
}
