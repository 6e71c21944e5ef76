// Package model defines the data model produced by source analysis:
// class records, relationship edges, detected endpoints and batch jobs,
// diagnostics, and the finalized ProjectModel aggregate.
package model

// Layer is the architectural classification of a source unit, inferred
// from path and naming conventions.
type Layer string

const (
	LayerController Layer = "controller"
	LayerService    Layer = "service"
	LayerRepository Layer = "repository"
	LayerModel      Layer = "model"
	LayerConfig     Layer = "config"
	LayerUnknown    Layer = "unknown"
)

// ClassKind identifies the kind of a type declaration.
type ClassKind string

const (
	KindClass      ClassKind = "class"
	KindInterface  ClassKind = "interface"
	KindEnum       ClassKind = "enum"
	KindAnnotation ClassKind = "annotation"
)

// EdgeKind identifies the kind of a relationship between two classes.
type EdgeKind string

const (
	EdgeInheritance    EdgeKind = "inheritance"
	EdgeImplementation EdgeKind = "implementation"
	EdgeAssociation    EdgeKind = "association"
	EdgeAggregation    EdgeKind = "aggregation"
	EdgeComposition    EdgeKind = "composition"
)

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// DiagnosticKind identifies what condition produced a diagnostic.
type DiagnosticKind string

const (
	DiagParseFailure         DiagnosticKind = "parse-failure"
	DiagDuplicateDefinition  DiagnosticKind = "duplicate-definition"
	DiagUnresolvedReference  DiagnosticKind = "unresolved-reference"
	DiagUnsupportedConstruct DiagnosticKind = "unsupported-construct"
)

// SourceUnit is one source file handed to the parser: relative path,
// raw content, and the layer tag detected by the loader.
type SourceUnit struct {
	Path   string `json:"path"` // relative to the project root, slash-separated
	Source []byte `json:"-"`
	Layer  Layer  `json:"layer"`
}

// Diagnostic records a recoverable condition encountered while analyzing
// one unit. Diagnostics are never dropped; consumers display them alongside
// the model.
type Diagnostic struct {
	Path     string         `json:"path"`
	Severity Severity       `json:"severity"`
	Kind     DiagnosticKind `json:"kind"`
	Message  string         `json:"message"`
}

// Annotation is an annotation attached to a class, field, or method.
// Value holds the single positional argument if present; Args holds
// named arguments (e.g. method, path, cron).
type Annotation struct {
	Name  string            `json:"name"`
	Value string            `json:"value,omitempty"`
	Args  map[string]string `json:"args,omitempty"`
}

// Parameter is one method parameter.
type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FieldRecord is one declared field of a class. Type is the declared type
// as written, including generic arguments.
type FieldRecord struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Modifiers   []string     `json:"modifiers,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// MethodRecord is one declared method of a class.
type MethodRecord struct {
	Name        string       `json:"name"`
	ReturnType  string       `json:"return_type"`
	Parameters  []Parameter  `json:"parameters,omitempty"`
	Modifiers   []string     `json:"modifiers,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// ClassRecord is the canonical record for one type declaration. Identity is
// the qualified name; nested types are flattened into independent records
// with qualified names reflecting nesting (pkg.Outer.Inner).
type ClassRecord struct {
	QualifiedName string         `json:"qualified_name"`
	Name          string         `json:"name"`
	Package       string         `json:"package,omitempty"`
	Kind          ClassKind      `json:"kind"`
	Layer         Layer          `json:"layer"`
	Path          string         `json:"path"` // unit that declared this type
	Annotations   []Annotation   `json:"annotations,omitempty"`
	Extends       []string       `json:"extends,omitempty"` // one for classes, any number for interfaces
	Implements    []string       `json:"implements,omitempty"`
	Fields        []FieldRecord  `json:"fields,omitempty"`
	Methods       []MethodRecord `json:"methods,omitempty"`
}

// HasAnnotation reports whether the class carries an annotation with the
// given name.
func (c *ClassRecord) HasAnnotation(name string) bool {
	for _, a := range c.Annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// HasAnnotation reports whether the method carries an annotation with the
// given name.
func (m *MethodRecord) HasAnnotation(name string) bool {
	for _, a := range m.Annotations {
		if a.Name == name {
			return true
		}
	}
	return false
}

// IsPrivate reports whether the method is declared private.
func (m *MethodRecord) IsPrivate() bool {
	for _, mod := range m.Modifiers {
		if mod == "private" {
			return true
		}
	}
	return false
}

// RelationshipEdge is a directed relationship between two classes. Evidence
// names the field or signature that produced the inference. Kind
// classification for association/aggregation/composition is best-effort,
// derived from declared-type shape rather than runtime lifetime analysis.
type RelationshipEdge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Kind     EdgeKind `json:"kind"`
	Evidence string   `json:"evidence"`
}

// Endpoint is a detected HTTP endpoint. Duplicate paths across controllers
// are valid findings, not errors.
type Endpoint struct {
	Class      string   `json:"class"`  // owning class qualified name
	Method     string   `json:"method"` // owning method name
	HTTPMethod string   `json:"http_method"`
	Path       string   `json:"path"`
	PathParams []string `json:"path_params,omitempty"`
}

// BatchJob is a detected scheduled or batch job definition. Trigger is
// preserved verbatim; no schedule syntax is evaluated here.
type BatchJob struct {
	Class   string `json:"class"`
	Method  string `json:"method,omitempty"` // empty for class-level findings
	Kind    string `json:"kind"`
	Trigger string `json:"trigger,omitempty"`
}

// BatchJob kind tags.
const (
	BatchScheduledMethod = "scheduled-method"
	BatchClass           = "batch-class"
	BatchNamedClass      = "named-batch-class"
)

// Summary aggregates project-wide counts.
type Summary struct {
	TotalUnits    int `json:"total_units"`
	ParsedUnits   int `json:"parsed_units"`
	FailedUnits   int `json:"failed_units"`
	Classes       int `json:"classes"`
	Interfaces    int `json:"interfaces"`
	Enums         int `json:"enums"`
	Relationships int `json:"relationships"`
	Endpoints     int `json:"endpoints"`
	BatchJobs     int `json:"batch_jobs"`
	Diagnostics   int `json:"diagnostics"`
	TotalLines    int `json:"total_lines"`
}
