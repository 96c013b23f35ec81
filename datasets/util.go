package datasets

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// recursiveList walks dir and returns every file whose name ends in suffix.
// The result is sorted so callers see a deterministic order regardless of
// directory layout.
func recursiveList(dir, suffix string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
