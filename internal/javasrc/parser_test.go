package javasrc

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlens/jlens/internal/model"
)

// Test Plan for Parser:
// - Parses a valid Java unit into a syntax model
// - Extracts package name and import paths (including wildcard imports)
// - Extracts class, interface, enum, annotation and record declarations
// - Extracts fields with declared types, modifiers and annotations
// - Extracts methods with return types, parameters and varargs
// - Skips constructors
// - Extracts annotation values and named arguments
// - Maps record components to private final fields
// - Reports nested types in place for later flattening
// - Turns syntax errors into a ParseFailure with a line hint
// - Enforces the per-unit size cap
// - Respects context cancellation

const fixturePath = "../../testdata/java/simple.java"

func parseFixture(t *testing.T) *Unit {
	t.Helper()

	source, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	parser := NewParser(0)
	parsed := parser.Parse(context.Background(), model.SourceUnit{
		Path:   "simple.java",
		Source: source,
	})
	require.True(t, parsed.OK(), "fixture should parse: %+v", parsed.Failure)
	require.NotNil(t, parsed.Syntax)
	return parsed.Syntax
}

func findType(t *testing.T, unit *Unit, name string) TypeDecl {
	t.Helper()
	for _, decl := range unit.Types {
		if decl.Name == name {
			return decl
		}
	}
	t.Fatalf("type %s not found in %v", name, unit.Types)
	return TypeDecl{}
}

func TestParser_PackageAndImports(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t)

	assert.Equal(t, "com.example.store", unit.Package)
	assert.Equal(t, []string{"java.util.List", "java.util.Optional", "java.util.*"}, unit.Imports)
	assert.Greater(t, unit.Lines, 30)
	assert.Empty(t, unit.Unsupported)
}

func TestParser_ClassDeclaration(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t)
	decl := findType(t, unit, "UserService")

	assert.Equal(t, model.KindClass, decl.Kind)
	assert.Equal(t, 7, decl.StartLine)
	assert.Empty(t, decl.Extends)
	assert.Empty(t, decl.Implements)

	require.Len(t, decl.Fields, 3)
	assert.Equal(t, "API_KEY", decl.Fields[0].Name)
	assert.Equal(t, "String", decl.Fields[0].Type)
	assert.Equal(t, []string{"private", "static", "final"}, decl.Fields[0].Modifiers)
	assert.Equal(t, "repository", decl.Fields[1].Name)
	assert.Equal(t, "UserRepository", decl.Fields[1].Type)
	assert.Equal(t, "recentUsers", decl.Fields[2].Name)
	assert.Equal(t, "List<User>", decl.Fields[2].Type)
}

func TestParser_Methods(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t)
	decl := findType(t, unit, "UserService")

	// Constructor is not a method.
	require.Len(t, decl.Methods, 3)

	find := decl.Methods[0]
	assert.Equal(t, "findUser", find.Name)
	assert.Equal(t, "Optional<User>", find.ReturnType)
	require.Len(t, find.Parameters, 1)
	assert.Equal(t, model.Parameter{Name: "id", Type: "long"}, find.Parameters[0])

	list := decl.Methods[1]
	assert.Equal(t, "listUsers", list.Name)
	assert.Equal(t, "List<User>", list.ReturnType)
	require.Len(t, list.Parameters, 2)
	assert.Equal(t, model.Parameter{Name: "filter", Type: "String"}, list.Parameters[0])
	assert.Equal(t, model.Parameter{Name: "limits", Type: "int..."}, list.Parameters[1])

	refresh := decl.Methods[2]
	assert.Equal(t, "refresh", refresh.Name)
	assert.Equal(t, "void", refresh.ReturnType)
	assert.True(t, refresh.IsPrivate())
}

func TestParser_InterfaceDeclaration(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t)
	decl := findType(t, unit, "UserRepository")

	assert.Equal(t, model.KindInterface, decl.Kind)
	assert.Equal(t, []string{"AutoCloseable"}, decl.Extends)
	require.Len(t, decl.Methods, 1)
	assert.Equal(t, "findById", decl.Methods[0].Name)
	assert.Equal(t, "Optional<User>", decl.Methods[0].ReturnType)
}

func TestParser_EnumDeclaration(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t)
	decl := findType(t, unit, "Status")

	assert.Equal(t, model.KindEnum, decl.Kind)
	assert.Equal(t, []string{"Describable"}, decl.Implements)
	require.Len(t, decl.Methods, 1)
	assert.Equal(t, "describe", decl.Methods[0].Name)
}

func TestParser_AnnotationDeclaration(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t)
	decl := findType(t, unit, "Audited")

	assert.Equal(t, model.KindAnnotation, decl.Kind)
}

func TestParser_RecordComponents(t *testing.T) {
	t.Parallel()

	unit := parseFixture(t)
	decl := findType(t, unit, "Point")

	assert.Equal(t, model.KindClass, decl.Kind)
	require.Len(t, decl.Fields, 2)
	assert.Equal(t, model.FieldRecord{Name: "x", Type: "int", Modifiers: []string{"private", "final"}}, decl.Fields[0])
	assert.Equal(t, model.FieldRecord{Name: "y", Type: "int", Modifiers: []string{"private", "final"}}, decl.Fields[1])
}

func TestParser_Annotations(t *testing.T) {
	t.Parallel()

	source := `package com.example;

import org.springframework.web.bind.annotation.RestController;

@RestController
@RequestMapping(value = "/api", produces = "application/json")
public class OrderController {

    @org.springframework.scheduling.annotation.Scheduled(cron = "0 0 * * * *")
    public void sweep() {
    }

    @GetMapping({"/orders", "/orders/all"})
    public String list() {
        return "";
    }
}
`
	parser := NewParser(0)
	parsed := parser.Parse(context.Background(), model.SourceUnit{Path: "OrderController.java", Source: []byte(source)})
	require.True(t, parsed.OK())

	decl := parsed.Syntax.Types[0]
	require.Len(t, decl.Annotations, 2)
	assert.Equal(t, model.Annotation{Name: "RestController"}, decl.Annotations[0])
	assert.Equal(t, "RequestMapping", decl.Annotations[1].Name)
	assert.Equal(t, "/api", decl.Annotations[1].Args["value"])
	assert.Equal(t, "application/json", decl.Annotations[1].Args["produces"])

	// Qualified annotation names are reduced to the last segment.
	sweep := decl.Methods[0]
	require.Len(t, sweep.Annotations, 1)
	assert.Equal(t, "Scheduled", sweep.Annotations[0].Name)
	assert.Equal(t, "0 0 * * * *", sweep.Annotations[0].Args["cron"])

	// Array-valued positional paths join with commas.
	list := decl.Methods[1]
	require.Len(t, list.Annotations, 1)
	assert.Equal(t, "GetMapping", list.Annotations[0].Name)
	assert.Equal(t, "/orders,/orders/all", list.Annotations[0].Value)
}

func TestParser_NestedTypes(t *testing.T) {
	t.Parallel()

	source := `package com.example;

public class Outer {
    private Inner inner;

    public static class Inner {
        private int value;
    }
}
`
	parser := NewParser(0)
	parsed := parser.Parse(context.Background(), model.SourceUnit{Path: "Outer.java", Source: []byte(source)})
	require.True(t, parsed.OK())

	require.Len(t, parsed.Syntax.Types, 1)
	outer := parsed.Syntax.Types[0]
	require.Len(t, outer.Nested, 1)
	assert.Equal(t, "Inner", outer.Nested[0].Name)
	assert.Equal(t, model.KindClass, outer.Nested[0].Kind)
}

func TestParser_SyntaxError(t *testing.T) {
	t.Parallel()

	source := `package com.example;

public class Broken {
    public void oops( {
}
`
	parser := NewParser(0)
	parsed := parser.Parse(context.Background(), model.SourceUnit{Path: "Broken.java", Source: []byte(source)})

	require.False(t, parsed.OK())
	assert.Equal(t, "Broken.java", parsed.Failure.Path)
	assert.Contains(t, parsed.Failure.Cause, "syntax error")
	assert.Nil(t, parsed.Syntax)
}

func TestParser_SizeCap(t *testing.T) {
	t.Parallel()

	source := "package com.example;\n" + strings.Repeat("// padding\n", 100)
	parser := NewParser(64)
	parsed := parser.Parse(context.Background(), model.SourceUnit{Path: "Big.java", Source: []byte(source)})

	require.False(t, parsed.OK())
	assert.Contains(t, parsed.Failure.Cause, "size cap")
}

func TestParser_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	parser := NewParser(0)
	parsed := parser.Parse(ctx, model.SourceUnit{Path: "Any.java", Source: []byte("class A {}")})

	require.False(t, parsed.OK())
	assert.Contains(t, parsed.Failure.Cause, "canceled")
}
