package model

import (
	"encoding/json"
	"sort"
	"strings"
)

// ProjectModel is the finalized aggregate of one analyzed project. It is
// built once by the aggregator and read-only afterwards; all accessors
// return copies or iterate internal state without exposing it for mutation.
type ProjectModel struct {
	root        string
	classes     map[string]ClassRecord
	names       []string // sorted qualified names
	edges       []RelationshipEdge
	endpoints   []Endpoint
	batchJobs   []BatchJob
	diagnostics []Diagnostic
	summary     Summary
}

// NewProjectModel assembles a finalized project model. The aggregator is the
// only intended caller; inputs are copied so later mutation by the caller
// cannot affect the model.
func NewProjectModel(
	root string,
	classes map[string]ClassRecord,
	edges []RelationshipEdge,
	endpoints []Endpoint,
	batchJobs []BatchJob,
	diagnostics []Diagnostic,
	summary Summary,
) *ProjectModel {
	m := &ProjectModel{
		root:        root,
		classes:     make(map[string]ClassRecord, len(classes)),
		edges:       append([]RelationshipEdge(nil), edges...),
		endpoints:   append([]Endpoint(nil), endpoints...),
		batchJobs:   append([]BatchJob(nil), batchJobs...),
		diagnostics: append([]Diagnostic(nil), diagnostics...),
		summary:     summary,
	}
	for name, rec := range classes {
		m.classes[name] = rec
		m.names = append(m.names, name)
	}
	sort.Strings(m.names)
	return m
}

// Root returns the analyzed project root path.
func (m *ProjectModel) Root() string { return m.root }

// Class looks up a class record by qualified name.
func (m *ProjectModel) Class(qualifiedName string) (ClassRecord, bool) {
	rec, ok := m.classes[qualifiedName]
	return rec, ok
}

// ClassNames returns all qualified names in lexicographic order.
func (m *ProjectModel) ClassNames() []string {
	return append([]string(nil), m.names...)
}

// Classes returns all class records ordered by qualified name.
func (m *ProjectModel) Classes() []ClassRecord {
	out := make([]ClassRecord, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, m.classes[name])
	}
	return out
}

// Edges returns all relationship edges.
func (m *ProjectModel) Edges() []RelationshipEdge {
	return append([]RelationshipEdge(nil), m.edges...)
}

// EdgesByKind returns the edges of the given kind.
func (m *ProjectModel) EdgesByKind(kind EdgeKind) []RelationshipEdge {
	out := []RelationshipEdge{}
	for _, e := range m.edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Endpoints returns all detected endpoints in detection order.
func (m *ProjectModel) Endpoints() []Endpoint {
	return append([]Endpoint(nil), m.endpoints...)
}

// EndpointsByClass returns the endpoints owned by the given class.
func (m *ProjectModel) EndpointsByClass(qualifiedName string) []Endpoint {
	out := []Endpoint{}
	for _, ep := range m.endpoints {
		if ep.Class == qualifiedName {
			out = append(out, ep)
		}
	}
	return out
}

// EndpointsByPathPrefix returns the endpoints whose path starts with prefix.
func (m *ProjectModel) EndpointsByPathPrefix(prefix string) []Endpoint {
	out := []Endpoint{}
	for _, ep := range m.endpoints {
		if strings.HasPrefix(ep.Path, prefix) {
			out = append(out, ep)
		}
	}
	return out
}

// BatchJobs returns all detected batch jobs in detection order.
func (m *ProjectModel) BatchJobs() []BatchJob {
	return append([]BatchJob(nil), m.batchJobs...)
}

// BatchJobsByKind returns the batch jobs with the given kind tag.
func (m *ProjectModel) BatchJobsByKind(kind string) []BatchJob {
	out := []BatchJob{}
	for _, job := range m.batchJobs {
		if job.Kind == kind {
			out = append(out, job)
		}
	}
	return out
}

// Diagnostics returns the ordered diagnostic sequence (sorted by unit path).
func (m *ProjectModel) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), m.diagnostics...)
}

// Summary returns project-wide counts.
func (m *ProjectModel) Summary() Summary { return m.summary }

// projectModelJSON is the structured tree form of a project model. Field
// names are stable across versions to support external tooling.
type projectModelJSON struct {
	Root        string             `json:"root"`
	Classes     []ClassRecord      `json:"classes"`
	Edges       []RelationshipEdge `json:"edges"`
	Endpoints   []Endpoint         `json:"endpoints"`
	BatchJobs   []BatchJob         `json:"batch_jobs"`
	Diagnostics []Diagnostic       `json:"diagnostics"`
	Summary     Summary            `json:"summary"`
}

// MarshalJSON serializes the model to its structured tree form.
func (m *ProjectModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(projectModelJSON{
		Root:        m.root,
		Classes:     m.Classes(),
		Edges:       m.Edges(),
		Endpoints:   m.Endpoints(),
		BatchJobs:   m.BatchJobs(),
		Diagnostics: m.Diagnostics(),
		Summary:     m.summary,
	})
}
