package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for ProjectModel:
// - Constructor copies inputs; later caller mutation does not leak in
// - Class lookup by qualified name
// - ClassNames and Classes are ordered lexicographically
// - Accessors return copies; mutating a returned slice does not leak back
// - Edge, endpoint and batch job filtering accessors
// - JSON serialization uses the stable tree form

func sampleModel() *ProjectModel {
	classes := map[string]ClassRecord{
		"com.acme.B": {QualifiedName: "com.acme.B", Name: "B", Package: "com.acme", Kind: KindClass, Layer: LayerModel, Path: "B.java"},
		"com.acme.A": {QualifiedName: "com.acme.A", Name: "A", Package: "com.acme", Kind: KindClass, Layer: LayerService, Path: "A.java"},
		"com.acme.I": {QualifiedName: "com.acme.I", Name: "I", Package: "com.acme", Kind: KindInterface, Layer: LayerUnknown, Path: "I.java"},
	}
	edges := []RelationshipEdge{
		{From: "com.acme.A", To: "com.acme.B", Kind: EdgeComposition, Evidence: "b B"},
		{From: "com.acme.A", To: "com.acme.I", Kind: EdgeImplementation, Evidence: "implements I"},
	}
	endpoints := []Endpoint{
		{Class: "com.acme.A", Method: "get", HTTPMethod: "GET", Path: "/api/items/{id}", PathParams: []string{"id"}},
		{Class: "com.acme.B", Method: "list", HTTPMethod: "GET", Path: "/internal/items"},
	}
	batchJobs := []BatchJob{
		{Class: "com.acme.A", Method: "sweep", Kind: BatchScheduledMethod, Trigger: "0 0 * * * *"},
		{Class: "com.acme.B", Kind: BatchNamedClass},
	}
	diagnostics := []Diagnostic{
		{Path: "Broken.java", Severity: SeverityError, Kind: DiagParseFailure, Message: "syntax error near line 4"},
	}
	return NewProjectModel("/proj", classes, edges, endpoints, batchJobs, diagnostics, Summary{Classes: 2, Interfaces: 1})
}

func TestProjectModel_Lookup(t *testing.T) {
	t.Parallel()

	m := sampleModel()

	assert.Equal(t, "/proj", m.Root())
	assert.Equal(t, []string{"com.acme.A", "com.acme.B", "com.acme.I"}, m.ClassNames())

	rec, ok := m.Class("com.acme.A")
	require.True(t, ok)
	assert.Equal(t, "A", rec.Name)

	_, ok = m.Class("com.acme.Missing")
	assert.False(t, ok)

	classes := m.Classes()
	require.Len(t, classes, 3)
	assert.Equal(t, "com.acme.A", classes[0].QualifiedName)
	assert.Equal(t, "com.acme.I", classes[2].QualifiedName)
}

func TestProjectModel_CopiesInputs(t *testing.T) {
	t.Parallel()

	classes := map[string]ClassRecord{
		"com.acme.A": {QualifiedName: "com.acme.A", Name: "A"},
	}
	edges := []RelationshipEdge{{From: "com.acme.A", To: "com.acme.A", Kind: EdgeAssociation}}
	m := NewProjectModel("/proj", classes, edges, nil, nil, nil, Summary{})

	// Mutate the originals after construction.
	classes["com.acme.B"] = ClassRecord{QualifiedName: "com.acme.B"}
	edges[0].To = "mutated"

	_, ok := m.Class("com.acme.B")
	assert.False(t, ok)
	assert.Equal(t, "com.acme.A", m.Edges()[0].To)

	// Mutate a returned copy.
	m.ClassNames()[0] = "mutated"
	assert.Equal(t, "com.acme.A", m.ClassNames()[0])
}

func TestProjectModel_Filters(t *testing.T) {
	t.Parallel()

	m := sampleModel()

	comp := m.EdgesByKind(EdgeComposition)
	require.Len(t, comp, 1)
	assert.Equal(t, "com.acme.B", comp[0].To)
	assert.Empty(t, m.EdgesByKind(EdgeAggregation))

	byClass := m.EndpointsByClass("com.acme.A")
	require.Len(t, byClass, 1)
	assert.Equal(t, "/api/items/{id}", byClass[0].Path)

	byPrefix := m.EndpointsByPathPrefix("/api")
	require.Len(t, byPrefix, 1)
	assert.Equal(t, "get", byPrefix[0].Method)

	scheduled := m.BatchJobsByKind(BatchScheduledMethod)
	require.Len(t, scheduled, 1)
	assert.Equal(t, "sweep", scheduled[0].Method)
}

func TestProjectModel_MarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(sampleModel())
	require.NoError(t, err)

	var tree map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &tree))

	for _, key := range []string{"root", "classes", "edges", "endpoints", "batch_jobs", "diagnostics", "summary"} {
		assert.Contains(t, tree, key)
	}

	var classes []ClassRecord
	require.NoError(t, json.Unmarshal(tree["classes"], &classes))
	require.Len(t, classes, 3)
	assert.Equal(t, "com.acme.A", classes[0].QualifiedName)
}
