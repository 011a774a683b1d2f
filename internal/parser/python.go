package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// PythonExtractor walks a Python syntax tree and collects import
// declarations, including those nested inside functions or conditionals.
type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, file *File) {
	e.walk(root, source, file)
}

func (e *PythonExtractor) walk(node *sitter.Node, source []byte, file *File) {
	switch node.Kind() {
	case "import_statement":
		e.extractImport(node, source, file)
	case "import_from_statement":
		e.extractFromImport(node, source, file)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, file)
	}
}

// extractImport handles "import a.b, c as d".
func (e *PythonExtractor) extractImport(node *sitter.Node, source []byte, file *File) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "dotted_name", "identifier":
			file.Imports = append(file.Imports, RawImport{
				Ref:  e.text(child, source),
				Kind: ImportAbsolute,
				Line: line(child),
			})
		case "aliased_import":
			var ref, alias string
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					if ref == "" {
						ref = e.text(sub, source)
					} else {
						alias = e.text(sub, source)
					}
				}
			}
			file.Imports = append(file.Imports, RawImport{
				Ref:   ref,
				Kind:  ImportAbsolute,
				Alias: alias,
				Line:  line(child),
			})
		}
	}
}

// extractFromImport handles "from x import y", "from . import y" and
// "from x import *".
func (e *PythonExtractor) extractFromImport(node *sitter.Node, source []byte, file *File) {
	imp := RawImport{
		Kind: ImportAbsolute,
		Line: line(node),
	}
	star := false

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "relative_import":
			rel := e.text(child, source)
			imp.Kind = ImportRelative
			imp.Level = len(rel) - len(strings.TrimLeft(rel, "."))
			imp.Ref = strings.TrimLeft(rel, ".")
		case "dotted_name", "identifier":
			if imp.Kind != ImportRelative && imp.Ref == "" {
				// Module reference before the "import" keyword.
				imp.Ref = e.text(child, source)
			} else {
				// Bare name after "import".
				imp.Items = append(imp.Items, e.text(child, source))
			}
		case "wildcard_import":
			star = true
		case "import_list", "aliased_import":
			e.collectItems(child, source, &imp.Items)
		}
	}

	if star {
		imp.Items = append(imp.Items, "*")
		if imp.Kind == ImportAbsolute {
			imp.Kind = ImportStar
		}
	}

	file.Imports = append(file.Imports, imp)
}

func (e *PythonExtractor) collectItems(node *sitter.Node, source []byte, items *[]string) {
	kind := node.Kind()
	if kind == "identifier" || kind == "dotted_name" {
		*items = append(*items, e.text(node, source))
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.collectItems(node.Child(i), source, items)
	}
}

func (e *PythonExtractor) text(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func line(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}
