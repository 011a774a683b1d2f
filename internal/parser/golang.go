package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// GoExtractor collects import specs from a Go syntax tree. Go has no
// relative or star imports, so every declaration is absolute.
type GoExtractor struct{}

func (e *GoExtractor) Extract(root *sitter.Node, source []byte, file *File) {
	e.walk(root, source, file)
}

func (e *GoExtractor) walk(node *sitter.Node, source []byte, file *File) {
	if node.Kind() == "import_declaration" {
		e.extractImports(node, source, file)
		return
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, file)
	}
}

func (e *GoExtractor) extractImports(node *sitter.Node, source []byte, file *File) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		if child.Kind() == "import_spec" {
			var alias, path string

			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)

				switch spec.Kind() {
				case "package_identifier", "blank_identifier", "dot":
					alias = e.text(spec, source)
				case "interpreted_string_literal", "raw_string_literal":
					path = strings.Trim(e.text(spec, source), "\"`")
				}
			}

			if path != "" {
				file.Imports = append(file.Imports, RawImport{
					Ref:   path,
					Kind:  ImportAbsolute,
					Alias: alias,
					Line:  line(child),
				})
			}
		} else {
			e.extractImports(child, source, file)
		}
	}
}

func (e *GoExtractor) text(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
