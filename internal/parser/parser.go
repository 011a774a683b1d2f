package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var ErrUnsupportedLanguage = errors.New("unsupported language")

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor  // language -> extractor
	pools      map[string]*ParserPool // language -> parser pool
}

// Extractor is the per-language front end: it turns a parsed syntax tree
// into the file's raw import declarations.
type Extractor interface {
	Extract(root *sitter.Node, source []byte, file *File)
}

func NewParser(loader *GrammarLoader) *Parser {
	return &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
		pools:      make(map[string]*ParserPool),
	}
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
	if grammar := p.loader.Language(lang); grammar != nil {
		p.pools[lang] = NewParserPool(grammar)
	}
}

// ParseFile parses one file's source and extracts its raw imports.
//
// A syntax error is not a parser failure: the returned File carries a
// ParseError and zero imports so the caller can still register the module
// and count the failure.
func (p *Parser) ParseFile(path string, content []byte) (*File, error) {
	lang := DetectLanguage(path)
	if lang == "" {
		return nil, ErrUnsupportedLanguage
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, fmt.Errorf("no extractor for: %s", lang)
	}
	pool := p.pools[lang]
	if pool == nil {
		return nil, fmt.Errorf("grammar not loaded: %s", lang)
	}

	file := &File{
		Path:      path,
		Language:  lang,
		IsPackage: filepath.Base(path) == "__init__.py",
		Lines:     bytes.Count(content, []byte("\n")) + 1,
		ParsedAt:  time.Now(),
	}

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		file.ParseError = "parse failed"
		return file, nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		file.ParseError = fmt.Sprintf("syntax error: line %d", firstErrorLine(root))
		return file, nil
	}

	extractor.Extract(root, content, file)
	return file, nil
}

func DetectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".py":
		return "python"
	case ".go":
		return "go"
	default:
		return ""
	}
}

// SupportedFile reports whether a path maps to a registered front end.
func SupportedFile(path string) bool {
	return DetectLanguage(path) != ""
}

func firstErrorLine(node *sitter.Node) int {
	if node.IsError() || node.IsMissing() {
		return int(node.StartPosition().Row) + 1
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if line := firstErrorLine(node.Child(i)); line > 0 {
			return line
		}
	}
	return 0
}
