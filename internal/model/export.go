package model

import "strings"

// Table is the flat tabular serialization form: a stable ordered column set
// plus string rows. Exporters (CSV, UI grids) consume this directly.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Stable column sets. Do not reorder or rename; external tooling keys on
// these names.
var (
	classColumns      = []string{"qualified_name", "name", "package", "kind", "layer", "path", "extends", "implements", "annotations"}
	fieldColumns      = []string{"class", "name", "type", "modifiers", "annotations"}
	methodColumns     = []string{"class", "name", "return_type", "parameters", "modifiers", "annotations"}
	edgeColumns       = []string{"from", "to", "kind", "evidence"}
	endpointColumns   = []string{"class", "method", "http_method", "path", "path_params"}
	batchJobColumns   = []string{"class", "method", "kind", "trigger"}
	diagnosticColumns = []string{"path", "severity", "kind", "message"}
)

// ClassesTable serializes all class records to tabular form.
func (m *ProjectModel) ClassesTable() Table {
	t := Table{Name: "classes", Columns: classColumns, Rows: [][]string{}}
	for _, c := range m.Classes() {
		t.Rows = append(t.Rows, []string{
			c.QualifiedName,
			c.Name,
			c.Package,
			string(c.Kind),
			string(c.Layer),
			c.Path,
			strings.Join(c.Extends, ";"),
			strings.Join(c.Implements, ";"),
			joinAnnotations(c.Annotations),
		})
	}
	return t
}

// FieldsTable serializes every field of every class to tabular form.
func (m *ProjectModel) FieldsTable() Table {
	t := Table{Name: "fields", Columns: fieldColumns, Rows: [][]string{}}
	for _, c := range m.Classes() {
		for _, f := range c.Fields {
			t.Rows = append(t.Rows, []string{
				c.QualifiedName,
				f.Name,
				f.Type,
				strings.Join(f.Modifiers, " "),
				joinAnnotations(f.Annotations),
			})
		}
	}
	return t
}

// MethodsTable serializes every method of every class to tabular form.
func (m *ProjectModel) MethodsTable() Table {
	t := Table{Name: "methods", Columns: methodColumns, Rows: [][]string{}}
	for _, c := range m.Classes() {
		for _, fn := range c.Methods {
			params := make([]string, 0, len(fn.Parameters))
			for _, p := range fn.Parameters {
				params = append(params, p.Type+" "+p.Name)
			}
			t.Rows = append(t.Rows, []string{
				c.QualifiedName,
				fn.Name,
				fn.ReturnType,
				strings.Join(params, ", "),
				strings.Join(fn.Modifiers, " "),
				joinAnnotations(fn.Annotations),
			})
		}
	}
	return t
}

// EdgesTable serializes the relationship edge set to tabular form.
func (m *ProjectModel) EdgesTable() Table {
	t := Table{Name: "edges", Columns: edgeColumns, Rows: [][]string{}}
	for _, e := range m.edges {
		t.Rows = append(t.Rows, []string{e.From, e.To, string(e.Kind), e.Evidence})
	}
	return t
}

// EndpointsTable serializes detected endpoints to tabular form.
func (m *ProjectModel) EndpointsTable() Table {
	t := Table{Name: "endpoints", Columns: endpointColumns, Rows: [][]string{}}
	for _, ep := range m.endpoints {
		t.Rows = append(t.Rows, []string{ep.Class, ep.Method, ep.HTTPMethod, ep.Path, strings.Join(ep.PathParams, ";")})
	}
	return t
}

// BatchJobsTable serializes detected batch jobs to tabular form.
func (m *ProjectModel) BatchJobsTable() Table {
	t := Table{Name: "batch_jobs", Columns: batchJobColumns, Rows: [][]string{}}
	for _, job := range m.batchJobs {
		t.Rows = append(t.Rows, []string{job.Class, job.Method, job.Kind, job.Trigger})
	}
	return t
}

// DiagnosticsTable serializes the diagnostic sequence to tabular form.
func (m *ProjectModel) DiagnosticsTable() Table {
	t := Table{Name: "diagnostics", Columns: diagnosticColumns, Rows: [][]string{}}
	for _, d := range m.diagnostics {
		t.Rows = append(t.Rows, []string{d.Path, string(d.Severity), string(d.Kind), d.Message})
	}
	return t
}

// Tables returns every tabular serialization of the model.
func (m *ProjectModel) Tables() []Table {
	return []Table{
		m.ClassesTable(),
		m.FieldsTable(),
		m.MethodsTable(),
		m.EdgesTable(),
		m.EndpointsTable(),
		m.BatchJobsTable(),
		m.DiagnosticsTable(),
	}
}

func joinAnnotations(annotations []Annotation) string {
	parts := make([]string, 0, len(annotations))
	for _, a := range annotations {
		if a.Value != "" {
			parts = append(parts, "@"+a.Name+"("+a.Value+")")
		} else {
			parts = append(parts, "@"+a.Name)
		}
	}
	return strings.Join(parts, " ")
}
