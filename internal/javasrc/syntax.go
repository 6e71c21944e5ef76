// Package javasrc parses one Java source unit into a syntax model. Parsing
// is stateless and re-entrant: every call builds its own tree-sitter parser,
// so units can be processed concurrently in any order. A failed parse is
// captured as data and never propagates as an error.
package javasrc

import "github.com/jlens/jlens/internal/model"

// Unit is the syntax model of one parsed source unit: the package name,
// imports, and top-level type declarations with their members.
type Unit struct {
	Path        string
	Package     string
	Imports     []string
	Types       []TypeDecl
	Lines       int
	Unsupported []string // top-level construct kinds we do not model
}

// TypeDecl is one type declaration. Nested declarations are kept in place;
// the entity extractor flattens them into independent class records.
type TypeDecl struct {
	Name        string
	Kind        model.ClassKind
	Annotations []model.Annotation
	Extends     []string // at most one for classes, any number for interfaces
	Implements  []string
	Fields      []model.FieldRecord
	Methods     []model.MethodRecord
	Nested      []TypeDecl
	StartLine   int
	EndLine     int
}

// ParseFailure carries the offending unit's path and a human-readable cause.
type ParseFailure struct {
	Path  string `json:"path"`
	Cause string `json:"cause"`
}

// ParsedUnit is the outcome of parsing one source unit: either a syntax
// model or a failure, never both.
type ParsedUnit struct {
	Unit    model.SourceUnit
	Syntax  *Unit
	Failure *ParseFailure
}

// OK reports whether the unit parsed successfully.
func (p *ParsedUnit) OK() bool { return p.Failure == nil }
