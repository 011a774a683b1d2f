package resolver

import (
	_ "embed"
	"strings"
)

//go:embed stdlib/python.txt
var pythonStdlib string

//go:embed stdlib/go.txt
var goStdlib string

// Table holds the per-language standard library names used during
// classification. Config may add or remove entries before scanning.
type Table struct {
	byLanguage map[string]map[string]struct{}
}

// DefaultTable returns the embedded stdlib tables for all supported
// languages.
func DefaultTable() *Table {
	t := &Table{byLanguage: make(map[string]map[string]struct{})}
	t.load("python", pythonStdlib)
	t.load("go", goStdlib)
	return t
}

func (t *Table) load(language, raw string) {
	set := make(map[string]struct{})
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = struct{}{}
	}
	t.byLanguage[language] = set
}

// Add marks a name as stdlib for a language.
func (t *Table) Add(language, name string) {
	set := t.byLanguage[language]
	if set == nil {
		set = make(map[string]struct{})
		t.byLanguage[language] = set
	}
	set[name] = struct{}{}
}

// Remove drops a name from a language's stdlib set.
func (t *Table) Remove(language, name string) {
	delete(t.byLanguage[language], name)
}

// Contains reports whether the full reference or its top-level segment is a
// standard library name for the language.
func (t *Table) Contains(language, ref, top string) bool {
	set := t.byLanguage[language]
	if set == nil {
		return false
	}
	if _, ok := set[ref]; ok {
		return true
	}
	_, ok := set[top]
	return ok
}
