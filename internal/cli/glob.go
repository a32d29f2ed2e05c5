package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

const globMeta = "*?[{"

// Expand resolves patterns to a sorted, de-duplicated list of files. "**"
// crosses directories, "*" does not. Hidden directories below the pattern
// root are skipped. A pattern without wildcards names a file directly.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(file string) {
		if _, ok := seen[file]; ok {
			return
		}
		seen[file] = struct{}{}
		out = append(out, file)
	}

	for _, pattern := range patterns {
		matches, err := expandOne(pattern)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			add(m)
		}
	}
	sort.Strings(out)
	return out, nil
}

func expandOne(pattern string) ([]string, error) {
	slashed := filepath.ToSlash(pattern)
	if !strings.ContainsAny(slashed, globMeta) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, fmt.Errorf("cli: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("cli: %s is a directory; use a pattern such as %s", pattern, path.Join(slashed, "**.yml"))
		}
		return []string{filepath.Clean(pattern)}, nil
	}

	clean := path.Clean(slashed)
	matcher, err := glob.Compile(clean, '/')
	if err != nil {
		return nil, fmt.Errorf("cli: invalid pattern %q: %w", pattern, err)
	}

	root := patternRoot(clean)
	var matches []string
	err = filepath.WalkDir(filepath.FromSlash(root), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != filepath.FromSlash(root) && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.Match(filepath.ToSlash(p)) {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cli: walk %s: %w", root, err)
	}
	return matches, nil
}

// patternRoot returns the directory prefix of pattern that holds no wildcard.
func patternRoot(pattern string) string {
	idx := strings.IndexAny(pattern, globMeta)
	if idx < 0 {
		return path.Dir(pattern)
	}
	prefix := pattern[:idx]
	slash := strings.LastIndex(prefix, "/")
	switch {
	case slash < 0:
		return "."
	case slash == 0:
		return "/"
	default:
		return prefix[:slash]
	}
}
