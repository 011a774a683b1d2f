package parser

import (
	"time"
)

// ImportKind classifies how an import declaration names its target.
type ImportKind int

const (
	ImportAbsolute ImportKind = iota
	ImportRelative
	ImportStar
)

func (k ImportKind) String() string {
	switch k {
	case ImportAbsolute:
		return "absolute"
	case ImportRelative:
		return "relative"
	case ImportStar:
		return "star"
	default:
		return "unknown"
	}
}

type File struct {
	Path       string
	Language   string
	Module     string // Canonical module id, assigned by the scanner
	IsPackage  bool   // Package marker file (__init__.py)
	Lines      int
	ParseError string // Non-empty when the file failed to parse
	Imports    []RawImport
	ParsedAt   time.Time
}

// RawImport is one import declaration as written in the source.
// Duplicates are preserved; deduplication happens at the edge level.
type RawImport struct {
	Ref   string   // Target reference as written (dots stripped for relative)
	Kind  ImportKind
	Level int      // Parent-package steps for relative imports (>=1)
	Items []string // Names listed after "import" in a from-import
	Alias string
	Line  int
}
