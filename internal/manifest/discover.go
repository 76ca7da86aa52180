package manifest

import (
	"errors"
	"fmt"
	"os"
	"sort"
)

// List loads every hook set manifest under dir, sorted by name. Directories
// without a manifest are skipped; directories with a broken manifest produce
// an entry in errs so the list command can warn without aborting.
func List(dir string) (sets []*Manifest, errs []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{fmt.Errorf("reading hooks directory %s: %w", dir, err)}
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m, err := Load(dir, entry.Name())
		if err != nil {
			// Plain directories without a config.yaml are not hook sets.
			if !errors.Is(err, ErrNotFound) {
				errs = append(errs, err)
			}
			continue
		}
		sets = append(sets, m)
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return sets, errs
}
