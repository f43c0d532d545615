package scrape

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"uocatalog-backend/lib/catalog"
)

// CombinedFileName is the dataset the downstream population command
// consumes: every term's grouped courses keyed by display term name.
const CombinedFileName = "all_courses_by_term.json"

func termFileName(termCode string) string {
	return fmt.Sprintf("courses_%s.json", termCode)
}

// writeJSON writes indented, human-diffable JSON through a temp file
// so a crashed run never leaves a torn snapshot behind.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	err = os.WriteFile(tmp, data, 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// WriteTermFile persists one term's grouped snapshot. Each run fully
// replaces the previous file, there is no incremental merge.
func WriteTermFile(dataDir, termCode string, file catalog.TermFile) (string, error) {
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dataDir, termFileName(termCode))
	err = writeJSON(path, file)
	if err != nil {
		return "", err
	}
	return path, nil
}

// WriteCombinedFile persists the all-terms dataset.
func WriteCombinedFile(dataDir string, byTerm map[string][]catalog.GroupedCourse) (string, error) {
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dataDir, CombinedFileName)
	err = writeJSON(path, byTerm)
	if err != nil {
		return "", err
	}
	return path, nil
}

// ReadTermFile loads a persisted snapshot, mostly for tests and the
// propagation step.
func ReadTermFile(path string) (catalog.TermFile, error) {
	var file catalog.TermFile
	data, err := os.ReadFile(path)
	if err != nil {
		return file, err
	}
	err = json.Unmarshal(data, &file)
	return file, err
}
