package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for tabular export:
// - Every table carries its stable column set
// - Class rows flatten extends/implements/annotations
// - Field and method rows are keyed by owning class
// - Empty sections still produce a table with zero rows
// - Tables() covers every section exactly once

func TestTables_Columns(t *testing.T) {
	t.Parallel()

	m := sampleModel()
	tables := m.Tables()
	require.Len(t, tables, 7)

	names := map[string][]string{}
	for _, table := range tables {
		names[table.Name] = table.Columns
	}

	assert.Equal(t, []string{"qualified_name", "name", "package", "kind", "layer", "path", "extends", "implements", "annotations"}, names["classes"])
	assert.Equal(t, []string{"from", "to", "kind", "evidence"}, names["edges"])
	assert.Equal(t, []string{"class", "method", "http_method", "path", "path_params"}, names["endpoints"])
	assert.Equal(t, []string{"class", "method", "kind", "trigger"}, names["batch_jobs"])
	assert.Equal(t, []string{"path", "severity", "kind", "message"}, names["diagnostics"])
}

func TestClassesTable_Rows(t *testing.T) {
	t.Parallel()

	classes := map[string]ClassRecord{
		"com.acme.OrderService": {
			QualifiedName: "com.acme.OrderService",
			Name:          "OrderService",
			Package:       "com.acme",
			Kind:          KindClass,
			Layer:         LayerService,
			Path:          "OrderService.java",
			Extends:       []string{"BaseService"},
			Implements:    []string{"Auditable", "Closeable"},
			Annotations:   []Annotation{{Name: "Service"}, {Name: "Profile", Value: "prod"}},
			Fields: []FieldRecord{
				{Name: "repo", Type: "OrderRepository", Modifiers: []string{"private", "final"}},
			},
			Methods: []MethodRecord{
				{Name: "find", ReturnType: "Order", Parameters: []Parameter{{Name: "id", Type: "long"}}},
			},
		},
	}
	m := NewProjectModel("/proj", classes, nil, nil, nil, nil, Summary{})

	ct := m.ClassesTable()
	require.Len(t, ct.Rows, 1)
	assert.Equal(t, []string{
		"com.acme.OrderService", "OrderService", "com.acme", "class", "service",
		"OrderService.java", "BaseService", "Auditable;Closeable", "@Service @Profile(prod)",
	}, ct.Rows[0])

	ft := m.FieldsTable()
	require.Len(t, ft.Rows, 1)
	assert.Equal(t, []string{"com.acme.OrderService", "repo", "OrderRepository", "private final", ""}, ft.Rows[0])

	mt := m.MethodsTable()
	require.Len(t, mt.Rows, 1)
	assert.Equal(t, []string{"com.acme.OrderService", "find", "Order", "long id", "", ""}, mt.Rows[0])
}

func TestTables_EmptyModel(t *testing.T) {
	t.Parallel()

	m := NewProjectModel("/proj", nil, nil, nil, nil, nil, Summary{})
	for _, table := range m.Tables() {
		assert.NotEmpty(t, table.Columns, table.Name)
		assert.NotNil(t, table.Rows, table.Name)
		assert.Empty(t, table.Rows, table.Name)
	}
}
