// Package deploy copies rendered hook set files into an installation root
// and removes them again on uninstall.
//
// Deployment is planned before anything is written: every destination is
// checked for conflicts first, so a conflicting install fails without
// leaving a partial file tree behind.
package deploy

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/iowarp/iowarp-hooks/internal/manifest"
	"github.com/iowarp/iowarp-hooks/internal/template"
)

// ErrConflict means a destination file exists and is not owned by the hook
// set being installed.
var ErrConflict = errors.New("deploy conflict")

// Options controls conflict handling during deployment.
type Options struct {
	// Force overwrites conflicting destinations instead of failing.
	Force bool

	// Owned reports whether this hook set previously deployed the given
	// destination path (relative to the deploy root). Nil means nothing is
	// owned.
	Owned func(relPath string) bool

	// Warn receives a message for each forced overwrite. Nil discards.
	Warn func(format string, args ...interface{})
}

func (o Options) owned(rel string) bool {
	return o.Owned != nil && o.Owned(rel)
}

func (o Options) warn(format string, args ...interface{}) {
	if o.Warn != nil {
		o.Warn(format, args...)
	}
}

// plannedFile is one file of a deployment plan.
type plannedFile struct {
	src        string // absolute source path
	rel        string // destination path relative to the deploy root
	executable bool
}

// Tree deploys every file under srcDir into dstRoot, preserving relative
// subdirectory structure and the source executable bit. Text files are
// rendered with vars; binary files are copied verbatim. It returns the
// deployed paths relative to dstRoot, sorted.
func Tree(srcDir, dstRoot string, vars map[string]string, opts Options) ([]string, error) {
	var plan []plannedFile
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		plan = append(plan, plannedFile{
			src:        path,
			rel:        rel,
			executable: info.Mode()&0111 != 0,
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // hook set ships no files, bindings only
		}
		return nil, fmt.Errorf("walking %s: %w", srcDir, err)
	}

	return execute(plan, dstRoot, vars, opts)
}

// Flatten deploys an explicit manifest file list into dstRoot, discarding
// source subdirectory structure: each file lands at its declared Dest name.
func Flatten(setDir string, files []manifest.FileSpec, vars map[string]string, dstRoot string, opts Options) ([]string, error) {
	plan := make([]plannedFile, 0, len(files))
	for _, f := range files {
		plan = append(plan, plannedFile{
			src:        filepath.Join(setDir, f.Src),
			rel:        f.Dest,
			executable: f.Executable,
		})
	}
	return execute(plan, dstRoot, vars, opts)
}

// execute checks the whole plan for conflicts, then writes it.
func execute(plan []plannedFile, dstRoot string, vars map[string]string, opts Options) ([]string, error) {
	seen := make(map[string]string, len(plan)) // rel -> first src
	for _, p := range plan {
		if first, dup := seen[p.rel]; dup {
			if !opts.Force {
				return nil, fmt.Errorf("%w: %s and %s both map to %s (use --force to overwrite)",
					ErrConflict, first, p.src, p.rel)
			}
			opts.warn("%s overwrites %s at %s", p.src, first, p.rel)
		}
		seen[p.rel] = p.src

		dst := filepath.Join(dstRoot, p.rel)
		if _, err := os.Stat(dst); err == nil && !opts.owned(p.rel) {
			if !opts.Force {
				return nil, fmt.Errorf("%w: %s already exists and was not deployed by this hook set (use --force to overwrite)",
					ErrConflict, dst)
			}
			opts.warn("overwriting existing file %s", dst)
		}
	}

	deployed := make([]string, 0, len(plan))
	for _, p := range plan {
		if err := deployFile(p, dstRoot, vars); err != nil {
			return nil, err
		}
		deployed = append(deployed, p.rel)
	}
	sort.Strings(deployed)
	return deployed, nil
}

func deployFile(p plannedFile, dstRoot string, vars map[string]string) error {
	data, err := os.ReadFile(p.src)
	if err != nil {
		return fmt.Errorf("reading %s: %w", p.src, err)
	}

	// Only text files are rendered; anything with a NUL byte is copied
	// verbatim.
	if !bytes.ContainsRune(data, 0) {
		data = []byte(template.RenderKnown(string(data), vars))
	}

	dst := filepath.Join(dstRoot, p.rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}

	perm := os.FileMode(0644)
	if p.executable {
		perm = 0755
	}
	if err := os.WriteFile(dst, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	// WriteFile does not chmod existing files; force the mode so a
	// reinstall can flip the executable bit.
	if err := os.Chmod(dst, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", dst, err)
	}
	return nil
}

// ListTree returns the relative paths Tree would deploy from srcDir, sorted,
// without writing anything. A missing srcDir yields nil.
func ListTree(srcDir string) ([]string, error) {
	var rels []string
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("walking %s: %w", srcDir, err)
	}
	sort.Strings(rels)
	return rels, nil
}

// Remove deletes the given paths (relative to root) and prunes directories
// left empty, up to but not including root. Missing files are skipped, so
// removing twice is a no-op.
func Remove(root string, relPaths []string) error {
	dirs := make(map[string]bool)
	for _, rel := range relPaths {
		path := filepath.Join(root, rel)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		for dir := filepath.Dir(path); len(dir) > len(root); dir = filepath.Dir(dir) {
			dirs[dir] = true
		}
	}

	// Deepest directories first so empty parents can fall too.
	ordered := make([]string, 0, len(dirs))
	for dir := range dirs {
		ordered = append(ordered, dir)
	}
	sort.Slice(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })
	for _, dir := range ordered {
		// Remove fails on non-empty directories, which is what keeps other
		// hook sets' files safe. Best effort only.
		_ = os.Remove(dir)
	}
	return nil
}
