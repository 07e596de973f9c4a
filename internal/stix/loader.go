package stix

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LoadBundles reads relationship bundles from disk. A directory is walked
// for *.json files, one bundle per file; a single file may hold either one
// bundle or a JSON array of bundles.
func LoadBundles(path string) ([]*Bundle, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve bundle path: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("stat bundle path: %w", err)
	}

	if !info.IsDir() {
		return loadBundleFile(resolved)
	}

	var bundles []*Bundle
	err = filepath.WalkDir(resolved, func(filePath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(filePath), ".json") {
			return nil
		}
		loaded, err := loadBundleFile(filePath)
		if err != nil {
			return fmt.Errorf("load bundle %s: %w", filePath, err)
		}
		bundles = append(bundles, loaded...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk bundle directory: %w", err)
	}
	return bundles, nil
}

func loadBundleFile(path string) ([]*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var many []*Bundle
		if err := json.Unmarshal(data, &many); err != nil {
			return nil, err
		}
		return many, nil
	}

	one, err := DecodeBundle(data)
	if err != nil {
		return nil, err
	}
	return []*Bundle{one}, nil
}
