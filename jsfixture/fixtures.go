package jsfixture

import (
	"path/filepath"

	"github.com/launchdarkly/js-fixture-harness/framework"
)

// FixtureID returns the ID of the fixture at path: its slash-separated path relative to root. A
// path outside root keeps its own form.
func FixtureID(path, root string) framework.FixtureID {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !startsWithParent(rel) {
			path = rel
		}
	}
	return framework.NewFixtureID(filepath.ToSlash(path))
}

func startsWithParent(rel string) bool {
	return rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)
}

// Fixtures wraps fixture files for a framework.Runner. A fixture whose ID is in skipList is
// reported as skipped without being run.
func Fixtures(paths []string, root string, engine *Engine, skipList *SkipList) []framework.NamedFixture {
	ret := make([]framework.NamedFixture, 0, len(paths))
	for _, path := range paths {
		path := path
		id := FixtureID(path, root)
		ret = append(ret, framework.NamedFixture{
			ID:     id,
			Source: path,
			Run: func(c *framework.Context) error {
				if reason, skip := skipList.Reason(id.String()); skip {
					c.Skip(reason)
				}
				return engine.RunFile(c, path)
			},
		})
	}
	return ret
}
