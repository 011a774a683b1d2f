package parser

import (
	"testing"
)

func newTestParser() *Parser {
	p := NewParser(NewGrammarLoader())
	p.RegisterExtractor("python", &PythonExtractor{})
	p.RegisterExtractor("go", &GoExtractor{})
	return p
}

func TestPythonImportExtraction(t *testing.T) {
	p := newTestParser()

	code := `
import os
import sys as system
from auth.utils import login
from . import sibling
from ..parent import thing
from helpers import *

def work():
    import json
`
	file, err := p.ParseFile("test.py", []byte(code))
	if err != nil {
		t.Fatal(err)
	}

	if file.Language != "python" {
		t.Errorf("Expected python, got %s", file.Language)
	}
	if file.ParseError != "" {
		t.Fatalf("Unexpected parse error: %s", file.ParseError)
	}
	if len(file.Imports) != 7 {
		t.Fatalf("Expected 7 imports, got %d", len(file.Imports))
	}

	checks := []struct {
		ref   string
		kind  ImportKind
		level int
	}{
		{"os", ImportAbsolute, 0},
		{"sys", ImportAbsolute, 0},
		{"auth.utils", ImportAbsolute, 0},
		{"", ImportRelative, 1},
		{"parent", ImportRelative, 2},
		{"helpers", ImportStar, 0},
		{"json", ImportAbsolute, 0},
	}
	for i, want := range checks {
		got := file.Imports[i]
		if got.Ref != want.ref || got.Kind != want.kind || got.Level != want.level {
			t.Errorf("Import %d: got {%q %v %d}, want {%q %v %d}",
				i, got.Ref, got.Kind, got.Level, want.ref, want.kind, want.level)
		}
	}

	if file.Imports[1].Alias != "system" {
		t.Errorf("Expected alias 'system', got %q", file.Imports[1].Alias)
	}
	if file.Imports[3].Items[0] != "sibling" {
		t.Errorf("Expected item 'sibling', got %v", file.Imports[3].Items)
	}
	if file.Imports[0].Line != 2 {
		t.Errorf("Expected line 2 for first import, got %d", file.Imports[0].Line)
	}
}

func TestPythonDuplicateImportsPreserved(t *testing.T) {
	p := newTestParser()

	code := `
import utils
import utils
`
	file, err := p.ParseFile("dup.py", []byte(code))
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Imports) != 2 {
		t.Fatalf("Duplicates must be preserved at extraction, got %d imports", len(file.Imports))
	}
}

func TestPythonSyntaxErrorRecovered(t *testing.T) {
	p := newTestParser()

	file, err := p.ParseFile("broken.py", []byte("def broken(:\n    pass\n"))
	if err != nil {
		t.Fatal(err)
	}
	if file.ParseError == "" {
		t.Fatal("Expected ParseError to be set")
	}
	if len(file.Imports) != 0 {
		t.Errorf("Failed parse must contribute zero imports, got %d", len(file.Imports))
	}
}

func TestPythonPackageMarker(t *testing.T) {
	p := newTestParser()

	file, err := p.ParseFile("pkg/__init__.py", []byte("from . import core\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !file.IsPackage {
		t.Error("__init__.py must be flagged as a package marker")
	}
}

func TestGoImportExtraction(t *testing.T) {
	p := newTestParser()

	code := `package main

import (
	"fmt"
	stdlog "log"
	_ "embed"
)

import "strings"
`
	file, err := p.ParseFile("main.go", []byte(code))
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Imports) != 4 {
		t.Fatalf("Expected 4 imports, got %d", len(file.Imports))
	}
	if file.Imports[0].Ref != "fmt" {
		t.Errorf("Expected fmt, got %s", file.Imports[0].Ref)
	}
	if file.Imports[1].Alias != "stdlog" {
		t.Errorf("Expected alias stdlog, got %q", file.Imports[1].Alias)
	}
	for _, imp := range file.Imports {
		if imp.Kind != ImportAbsolute {
			t.Errorf("Go import %s must be absolute", imp.Ref)
		}
	}
}

func TestUnsupportedLanguage(t *testing.T) {
	p := newTestParser()

	if _, err := p.ParseFile("notes.txt", []byte("hello")); err == nil {
		t.Fatal("Expected error for unsupported extension")
	}
}

func TestParserPoolReuse(t *testing.T) {
	loader := NewGrammarLoader()
	pool := NewParserPool(loader.Language("python"))

	sp := pool.Get()
	if sp == nil {
		t.Fatal("Expected a parser from the pool")
	}
	pool.Put(sp)

	sp2 := pool.Get()
	if sp2 == nil {
		t.Fatal("Expected a recycled parser from the pool")
	}
	tree := sp2.Parse([]byte("import os\n"), nil)
	if tree == nil {
		t.Fatal("Recycled parser failed to parse")
	}
	tree.Close()
	pool.Put(sp2)
}
