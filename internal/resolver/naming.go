package resolver

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Namer assigns a stable module identity to a source file relative to the
// scan root.
type Namer interface {
	ModuleID(path, root string) (string, error)
}

// PythonNamer maps file paths to dotted module names. A package __init__.py
// names the package itself, and the root __init__.py names the root
// directory.
type PythonNamer struct{}

func (PythonNamer) ModuleID(path, root string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")

	last := parts[len(parts)-1]
	last = strings.TrimSuffix(last, ".py")
	if last == "__init__" {
		parts = parts[:len(parts)-1]
	} else {
		parts[len(parts)-1] = last
	}

	if len(parts) == 0 {
		return filepath.Base(root), nil
	}
	return strings.Join(parts, "."), nil
}

var modulePathRe = regexp.MustCompile(`(?m)^module\s+(\S+)`)

// GoNamer maps file paths to import-path style identities by locating the
// nearest go.mod above each file. Lookups are cached per directory.
type GoNamer struct {
	dirCache map[string]string
}

func NewGoNamer() *GoNamer {
	return &GoNamer{dirCache: make(map[string]string)}
}

func (n *GoNamer) ModuleID(path, root string) (string, error) {
	dir := filepath.Dir(path)
	if id, ok := n.dirCache[dir]; ok {
		return id, nil
	}

	modDir, modPath := n.findModule(dir, root)
	var id string
	switch {
	case modPath == "":
		// No go.mod in scope: fall back to slash-joined relative path.
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			return "", err
		}
		if rel == "." {
			id = filepath.Base(root)
		} else {
			id = filepath.ToSlash(rel)
		}
	case dir == modDir:
		id = modPath
	default:
		rel, err := filepath.Rel(modDir, dir)
		if err != nil {
			return "", err
		}
		id = modPath + "/" + filepath.ToSlash(rel)
	}

	n.dirCache[dir] = id
	return id, nil
}

// findModule walks from dir up to root looking for a go.mod and returns the
// directory holding it plus the declared module path.
func (n *GoNamer) findModule(dir, root string) (string, string) {
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			if m := modulePathRe.FindSubmatch(data); m != nil {
				return dir, string(m[1])
			}
		}
		if dir == root || dir == filepath.Dir(dir) {
			return "", ""
		}
		dir = filepath.Dir(dir)
	}
}
