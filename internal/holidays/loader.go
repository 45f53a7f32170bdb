package holidays

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Load decodes holiday JSON from r.
func Load(r io.Reader) (Set, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse holidays JSON: %w", err)
	}
	set := make(Set, len(doc))
	for _, year := range doc {
		set[year.Year] = year.Holiday
	}
	return set, nil
}

// LoadFromFile loads holiday data from a JSON file.
func LoadFromFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holidays file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// DefaultPath returns the holidays file location in the user cache directory.
func DefaultPath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "tripcal", "holidays.json"), nil
}

// LoadDefault loads the cached holidays file. A missing file is not an
// error and yields a nil Set.
func LoadDefault() (Set, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	set, err := LoadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return set, err
}
