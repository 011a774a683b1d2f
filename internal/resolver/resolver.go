package resolver

import (
	"strings"

	"depmap/internal/parser"
)

// Classification is the closed set of outcomes for a raw import.
type Classification int

const (
	Local Classification = iota
	StandardLibrary
	ThirdParty
	Unresolvable
)

func (c Classification) String() string {
	switch c {
	case Local:
		return "local"
	case StandardLibrary:
		return "stdlib"
	case ThirdParty:
		return "third_party"
	default:
		return "unresolvable"
	}
}

// Resolution is the result of classifying one raw import. Module is set
// only when Class == Local.
type Resolution struct {
	Class  Classification
	Module string
}

// Resolver maps raw import references to local module identities using the
// registry of discovered modules and an injectable stdlib table.
type Resolver struct {
	registry *Registry
	stdlib   *Table
}

func New(registry *Registry, stdlib *Table) *Resolver {
	if stdlib == nil {
		stdlib = DefaultTable()
	}
	return &Resolver{registry: registry, stdlib: stdlib}
}

// Resolve classifies one raw import found in fromModule. Unresolvable is
// not an error: callers drop those imports silently.
func (r *Resolver) Resolve(imp parser.RawImport, fromModule, language string) Resolution {
	if imp.Kind == parser.ImportRelative {
		return r.resolveRelative(imp, fromModule)
	}

	sep := "."
	if language == "go" {
		sep = "/"
	}
	return r.resolveAbsolute(imp, language, sep)
}

// resolveRelative maps a relative reference against the importing module's
// package position. A depth beyond the module's nesting is unresolvable.
func (r *Resolver) resolveRelative(imp parser.RawImport, fromModule string) Resolution {
	parts := strings.Split(fromModule, ".")
	if imp.Level > len(parts) {
		return Resolution{Class: Unresolvable}
	}

	base := strings.Join(parts[:len(parts)-imp.Level], ".")
	candidate := base
	if imp.Ref != "" {
		if base != "" {
			candidate = base + "." + imp.Ref
		} else {
			candidate = imp.Ref
		}
	}
	if candidate == "" {
		return Resolution{Class: Unresolvable}
	}

	// With an explicit module reference the reference itself wins; for a
	// bare "from . import name" the sibling module wins over the package.
	if imp.Ref != "" && r.registry.Has(candidate) {
		return Resolution{Class: Local, Module: candidate}
	}
	for _, item := range imp.Items {
		if sibling := candidate + "." + item; r.registry.Has(sibling) {
			return Resolution{Class: Local, Module: sibling}
		}
	}
	if r.registry.Has(candidate) {
		return Resolution{Class: Local, Module: candidate}
	}
	if parent := parentModule(candidate); parent != "" && r.registry.Has(parent) {
		return Resolution{Class: Local, Module: parent}
	}

	return Resolution{Class: Unresolvable}
}

func (r *Resolver) resolveAbsolute(imp parser.RawImport, language, sep string) Resolution {
	ref := imp.Ref
	if ref == "" {
		return Resolution{Class: Unresolvable}
	}

	parts := strings.Split(ref, sep)
	if r.stdlib.Contains(language, ref, parts[0]) {
		return Resolution{Class: StandardLibrary}
	}

	if r.registry.Has(ref) {
		// A from-import may name a submodule of the matched package.
		for _, item := range imp.Items {
			if sub := ref + sep + item; r.registry.Has(sub) {
				return Resolution{Class: Local, Module: sub}
			}
		}
		return Resolution{Class: Local, Module: ref}
	}

	// Longest-prefix match prefers package submodules over same-named
	// top-level modules.
	for i := len(parts) - 1; i >= 1; i-- {
		candidate := strings.Join(parts[:i], sep)
		if r.registry.Has(candidate) {
			return Resolution{Class: Local, Module: candidate}
		}
	}

	if r.registry.HasTopLevel(parts[0]) {
		return Resolution{Class: Unresolvable}
	}

	// Only after local ids are ruled out: Go stdlib packages have no
	// domain in their first segment, and module paths like "svc" share
	// that shape.
	if language == "go" && !strings.Contains(parts[0], ".") {
		return Resolution{Class: StandardLibrary}
	}
	return Resolution{Class: ThirdParty}
}

func parentModule(id string) string {
	idx := strings.LastIndex(id, ".")
	if idx < 0 {
		return ""
	}
	return id[:idx]
}
