package jsfixture

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const fixtureExtension = ".js"

// Shell files live alongside the fixtures but are not fixtures themselves.
var shellFileNames = map[string]bool{
	"shell.js":   true,
	"browser.js": true,
}

// Discover expands fixture patterns into a sorted, de-duplicated list of fixture file paths.
//
// A pattern may name a fixture file, a directory (which is searched recursively for .js files), or
// a glob in which a "**" segment matches any number of directories. Hidden directories, directories
// whose name is in ignore, and shell files are never returned. A pattern that matches nothing is
// an error.
func Discover(patterns []string, ignore []string) ([]string, error) {
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	found := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := discoverPattern(filepath.Clean(pattern), ignored)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no fixtures match %q", pattern)
		}
		for _, m := range matches {
			found[m] = true
		}
	}

	ret := make([]string, 0, len(found))
	for path := range found {
		ret = append(ret, path)
	}
	sort.Strings(ret)
	return ret, nil
}

func discoverPattern(pattern string, ignored map[string]bool) ([]string, error) {
	if !hasMeta(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, fmt.Errorf("fixture path does not exist: %s", pattern)
		}
		if info.IsDir() {
			return walkFixtures(pattern, ignored, func(string) bool { return true })
		}
		return []string{pattern}, nil
	}

	base, rest := splitGlob(pattern)
	if _, err := os.Stat(base); err != nil {
		return nil, nil
	}
	patternParts := strings.Split(filepath.ToSlash(rest), "/")
	return walkFixtures(base, ignored, func(path string) bool {
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return false
		}
		return matchSegments(patternParts, strings.Split(filepath.ToSlash(rel), "/"))
	})
}

func walkFixtures(root string, ignored map[string]bool, match func(string) bool) ([]string, error) {
	var fixtures []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || ignored[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(name, fixtureExtension) || shellFileNames[name] {
			return nil
		}
		if match(path) {
			fixtures = append(fixtures, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning %s: %w", root, err)
	}
	return fixtures, nil
}

// splitGlob separates the leading directories of a pattern that contain no wildcards.
func splitGlob(pattern string) (base, rest string) {
	parts := strings.Split(filepath.ToSlash(pattern), "/")
	i := 0
	for i < len(parts)-1 && !hasMeta(parts[i]) {
		i++
	}
	base = strings.Join(parts[:i], "/")
	if base == "" {
		base = "."
		if strings.HasPrefix(pattern, "/") {
			base = "/"
		}
	}
	return filepath.FromSlash(base), strings.Join(parts[i:], "/")
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if pattern[0] == "**" {
		for i := 0; i <= len(path); i++ {
			if matchSegments(pattern[1:], path[i:]) {
				return true
			}
		}
		return false
	}
	if len(path) == 0 {
		return false
	}
	if ok, err := filepath.Match(pattern[0], path[0]); err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], path[1:])
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
