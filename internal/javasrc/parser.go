package javasrc

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/jlens/jlens/internal/model"
)

// Parser parses Java source units with tree-sitter. A Parser holds only the
// grammar and limits; per-call parser state is created and destroyed inside
// Parse, so one Parser may be shared across goroutines.
type Parser struct {
	language    *sitter.Language
	maxFileSize int
}

// NewParser creates a Java unit parser. maxFileSize bounds the size of a
// single unit in bytes; zero disables the cap.
func NewParser(maxFileSize int) *Parser {
	return &Parser{
		language:    sitter.NewLanguage(java.Language()),
		maxFileSize: maxFileSize,
	}
}

// Parse parses one source unit. The result is always a ParsedUnit: syntax
// on success, a ParseFailure otherwise. Parse never returns an error — a
// malformed unit must not abort the batch it belongs to.
func (p *Parser) Parse(ctx context.Context, unit model.SourceUnit) ParsedUnit {
	if err := ctx.Err(); err != nil {
		return p.fail(unit, fmt.Sprintf("analysis canceled: %v", err))
	}

	if p.maxFileSize > 0 && len(unit.Source) > p.maxFileSize {
		return p.fail(unit, fmt.Sprintf("unit exceeds size cap (%d > %d bytes)", len(unit.Source), p.maxFileSize))
	}

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(unit.Source, nil)
	if tree == nil {
		return p.fail(unit, "tree-sitter produced no syntax tree")
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return p.fail(unit, fmt.Sprintf("syntax error near line %d", firstErrorLine(rootNode)))
	}

	syntax := &Unit{
		Path:    unit.Path,
		Imports: []string{},
		Lines:   bytes.Count(unit.Source, []byte("\n")) + 1,
	}

	for i := 0; i < int(rootNode.ChildCount()); i++ {
		child := rootNode.Child(uint(i))
		switch child.Kind() {
		case "package_declaration":
			syntax.Package = packageName(child, unit.Source)
		case "import_declaration":
			if imp := importPath(child, unit.Source); imp != "" {
				syntax.Imports = append(syntax.Imports, imp)
			}
		case "class_declaration", "interface_declaration", "enum_declaration",
			"annotation_type_declaration", "record_declaration":
			if decl, ok := p.extractType(child, unit.Source); ok {
				syntax.Types = append(syntax.Types, decl)
			}
		case "line_comment", "block_comment", ";":
			// skip
		default:
			if child.IsNamed() {
				syntax.Unsupported = append(syntax.Unsupported, child.Kind())
			}
		}
	}

	return ParsedUnit{Unit: unit, Syntax: syntax}
}

func (p *Parser) fail(unit model.SourceUnit, cause string) ParsedUnit {
	return ParsedUnit{
		Unit:    unit,
		Failure: &ParseFailure{Path: unit.Path, Cause: cause},
	}
}

// extractType extracts one type declaration, recursing into nested types.
func (p *Parser) extractType(node *sitter.Node, source []byte) (TypeDecl, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return TypeDecl{}, false
	}

	decl := TypeDecl{
		Name:      extractNodeText(nameNode, source),
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	}
	_, decl.Annotations = parseModifiers(node, source)

	switch node.Kind() {
	case "class_declaration":
		decl.Kind = model.KindClass
		if sup := node.ChildByFieldName("superclass"); sup != nil {
			if t := firstTypeIn(sup, source); t != "" {
				decl.Extends = append(decl.Extends, t)
			}
		}
		decl.Implements = typeListOf(node.ChildByFieldName("interfaces"), source)
		p.extractBody(node.ChildByFieldName("body"), source, &decl)

	case "interface_declaration":
		decl.Kind = model.KindInterface
		// Interfaces extending interfaces appear under extends_interfaces.
		decl.Extends = typeListOf(findChildByType(node, "extends_interfaces"), source)
		p.extractBody(node.ChildByFieldName("body"), source, &decl)

	case "enum_declaration":
		decl.Kind = model.KindEnum
		decl.Implements = typeListOf(node.ChildByFieldName("interfaces"), source)
		p.extractEnumBody(node.ChildByFieldName("body"), source, &decl)

	case "annotation_type_declaration":
		decl.Kind = model.KindAnnotation

	case "record_declaration":
		// Records are modeled as classes; components become fields.
		decl.Kind = model.KindClass
		decl.Implements = typeListOf(node.ChildByFieldName("interfaces"), source)
		p.extractRecordComponents(node.ChildByFieldName("parameters"), source, &decl)
		p.extractBody(node.ChildByFieldName("body"), source, &decl)
	}

	return decl, true
}

// extractBody walks a class or interface body.
func (p *Parser) extractBody(body *sitter.Node, source []byte, decl *TypeDecl) {
	if body == nil {
		return
	}
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(uint(i))
		switch child.Kind() {
		case "field_declaration", "constant_declaration":
			decl.Fields = append(decl.Fields, parseFields(child, source)...)
		case "method_declaration":
			if m, ok := parseMethod(child, source); ok {
				decl.Methods = append(decl.Methods, m)
			}
		case "class_declaration", "interface_declaration", "enum_declaration",
			"annotation_type_declaration", "record_declaration":
			if nested, ok := p.extractType(child, source); ok {
				decl.Nested = append(decl.Nested, nested)
			}
		}
	}
}

// extractEnumBody walks an enum body; member declarations live under
// enum_body_declarations, after the constant list.
func (p *Parser) extractEnumBody(body *sitter.Node, source []byte, decl *TypeDecl) {
	if body == nil {
		return
	}
	if decls := findChildByType(body, "enum_body_declarations"); decls != nil {
		p.extractBody(decls, source, decl)
	}
}

// extractRecordComponents maps record components to field records.
func (p *Parser) extractRecordComponents(params *sitter.Node, source []byte, decl *TypeDecl) {
	if params == nil {
		return
	}
	for i := 0; i < int(params.ChildCount()); i++ {
		child := params.Child(uint(i))
		if child.Kind() != "formal_parameter" {
			continue
		}
		typeNode := child.ChildByFieldName("type")
		nameNode := child.ChildByFieldName("name")
		if typeNode == nil || nameNode == nil {
			continue
		}
		decl.Fields = append(decl.Fields, model.FieldRecord{
			Name:      extractNodeText(nameNode, source),
			Type:      extractNodeText(typeNode, source),
			Modifiers: []string{"private", "final"},
		})
	}
}

// parseFields extracts the field records of one field declaration. A single
// declaration may declare several variables of the same type.
func parseFields(node *sitter.Node, source []byte) []model.FieldRecord {
	mods, anns := parseModifiers(node, source)

	var typeName string
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		typeName = extractNodeText(typeNode, source)
	}

	var fields []model.FieldRecord
	for _, declarator := range findChildrenByType(node, "variable_declarator") {
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		fields = append(fields, model.FieldRecord{
			Name:        extractNodeText(nameNode, source),
			Type:        typeName,
			Modifiers:   mods,
			Annotations: anns,
		})
	}
	return fields
}

// parseMethod extracts one method declaration. Constructors are not
// reported as methods.
func parseMethod(node *sitter.Node, source []byte) (model.MethodRecord, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return model.MethodRecord{}, false
	}

	mods, anns := parseModifiers(node, source)

	method := model.MethodRecord{
		Name:        extractNodeText(nameNode, source),
		Modifiers:   mods,
		Annotations: anns,
	}
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		method.ReturnType = extractNodeText(typeNode, source)
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.ChildCount()); i++ {
			child := params.Child(uint(i))
			switch child.Kind() {
			case "formal_parameter":
				method.Parameters = append(method.Parameters, parseParameter(child, source, false))
			case "spread_parameter":
				method.Parameters = append(method.Parameters, parseParameter(child, source, true))
			}
		}
	}

	return method, true
}

func parseParameter(node *sitter.Node, source []byte, spread bool) model.Parameter {
	param := model.Parameter{}
	if typeNode := node.ChildByFieldName("type"); typeNode != nil {
		param.Type = extractNodeText(typeNode, source)
	} else if first := firstNamedChild(node); first != nil {
		param.Type = extractNodeText(first, source)
	}
	if spread {
		param.Type += "..."
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		param.Name = extractNodeText(nameNode, source)
	} else if declarator := findChildByType(node, "variable_declarator"); declarator != nil {
		if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
			param.Name = extractNodeText(nameNode, source)
		}
	}
	return param
}

// parseModifiers collects modifier keywords and annotations from a
// declaration's modifiers node.
func parseModifiers(node *sitter.Node, source []byte) ([]string, []model.Annotation) {
	modifiers := findChildByType(node, "modifiers")
	if modifiers == nil {
		return nil, nil
	}

	var mods []string
	var anns []model.Annotation
	for i := 0; i < int(modifiers.ChildCount()); i++ {
		child := modifiers.Child(uint(i))
		switch child.Kind() {
		case "annotation", "marker_annotation":
			anns = append(anns, parseAnnotation(child, source))
		default:
			mods = append(mods, extractNodeText(child, source))
		}
	}
	return mods, anns
}

// parseAnnotation extracts an annotation's simple name and arguments.
// Qualified annotation names are reduced to the last segment so marker
// tables match regardless of import style.
func parseAnnotation(node *sitter.Node, source []byte) model.Annotation {
	ann := model.Annotation{}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name := extractNodeText(nameNode, source)
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		ann.Name = name
	}

	args := node.ChildByFieldName("arguments")
	if args == nil {
		return ann
	}

	for i := 0; i < int(args.ChildCount()); i++ {
		child := args.Child(uint(i))
		if !child.IsNamed() {
			continue
		}
		if child.Kind() == "element_value_pair" {
			keyNode := child.ChildByFieldName("key")
			valueNode := child.ChildByFieldName("value")
			if keyNode == nil || valueNode == nil {
				continue
			}
			if ann.Args == nil {
				ann.Args = map[string]string{}
			}
			ann.Args[extractNodeText(keyNode, source)] = literalText(valueNode, source)
		} else {
			ann.Value = literalText(child, source)
		}
	}
	return ann
}

// literalText renders an annotation value: string literals lose their
// quotes, array initializers join their elements with commas, everything
// else is kept verbatim.
func literalText(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "string_literal":
		return strings.Trim(extractNodeText(node, source), `"`)
	case "element_value_array_initializer":
		var parts []string
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(uint(i))
			if child.IsNamed() {
				parts = append(parts, literalText(child, source))
			}
		}
		return strings.Join(parts, ",")
	default:
		return extractNodeText(node, source)
	}
}

// packageName extracts the package name from a package declaration.
func packageName(node *sitter.Node, source []byte) string {
	nameNode := findChildByType(node, "scoped_identifier")
	if nameNode == nil {
		nameNode = findChildByType(node, "identifier")
	}
	return extractNodeText(nameNode, source)
}

// importPath extracts the imported path; wildcard imports keep their ".*"
// suffix.
func importPath(node *sitter.Node, source []byte) string {
	nameNode := findChildByType(node, "scoped_identifier")
	if nameNode == nil {
		nameNode = findChildByType(node, "identifier")
	}
	path := extractNodeText(nameNode, source)
	if path != "" && findChildByType(node, "asterisk") != nil {
		path += ".*"
	}
	return path
}

// firstTypeIn returns the text of the first type node under a superclass
// clause (skipping the extends keyword).
func firstTypeIn(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.IsNamed() {
			return extractNodeText(child, source)
		}
	}
	return ""
}

// typeListOf returns the types listed under a super_interfaces or
// extends_interfaces clause.
func typeListOf(node *sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	list := findChildByType(node, "type_list")
	if list == nil {
		list = node
	}
	var types []string
	for i := 0; i < int(list.ChildCount()); i++ {
		child := list.Child(uint(i))
		if child.IsNamed() {
			types = append(types, extractNodeText(child, source))
		}
	}
	return types
}

// firstErrorLine locates the first error or missing node for diagnostics.
func firstErrorLine(root *sitter.Node) int {
	line := int(root.StartPosition().Row) + 1
	found := false
	walkTree(root, func(n *sitter.Node) bool {
		if found {
			return false
		}
		if n.IsError() || n.IsMissing() {
			line = int(n.StartPosition().Row) + 1
			found = true
			return false
		}
		return true
	})
	return line
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		walkTree(child, visitor)
	}
}

// findChildByType finds the first child node with the given type.
func findChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			return child
		}
	}
	return nil
}

// findChildrenByType finds all child nodes with the given type.
func findChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	if node == nil {
		return results
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.Kind() == nodeType {
			results = append(results, child)
		}
	}
	return results
}

func firstNamedChild(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.IsNamed() {
			return child
		}
	}
	return nil
}
