package analyzer

import (
	"fmt"
	"log"
	"sort"

	"github.com/jlens/jlens/internal/javasrc"
	"github.com/jlens/jlens/internal/model"
)

// Aggregator merges per-unit extraction results into one consistent class
// map. Merging is single-threaded and happens in loader order, so the
// last-seen-wins rule for duplicate qualified names is deterministic.
type Aggregator struct {
	classes     map[string]model.ClassRecord
	diagnostics []model.Diagnostic
	parsedUnits int
	failedUnits int
	totalLines  int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		classes: make(map[string]model.ClassRecord),
	}
}

// AddUnit merges one unit's outcome. A parse failure contributes a
// diagnostic and nothing else; extraction results replace earlier
// definitions of the same qualified name with a duplicate-definition
// diagnostic — data is never silently dropped and the run never fails here.
func (a *Aggregator) AddUnit(parsed javasrc.ParsedUnit, classes []model.ClassRecord) {
	a.totalLines += countLines(parsed.Unit.Source)

	if !parsed.OK() {
		a.failedUnits++
		a.diagnostics = append(a.diagnostics, model.Diagnostic{
			Path:     parsed.Failure.Path,
			Severity: model.SeverityError,
			Kind:     model.DiagParseFailure,
			Message:  parsed.Failure.Cause,
		})
		return
	}

	a.parsedUnits++
	a.diagnostics = append(a.diagnostics, UnsupportedDiagnostics(parsed)...)

	for _, record := range classes {
		if existing, ok := a.classes[record.QualifiedName]; ok {
			log.Printf("Warning: duplicate definition of %s in %s and %s\n",
				record.QualifiedName, existing.Path, record.Path)
			a.diagnostics = append(a.diagnostics, model.Diagnostic{
				Path:     record.Path,
				Severity: model.SeverityWarning,
				Kind:     model.DiagDuplicateDefinition,
				Message: fmt.Sprintf("%s already defined in %s; keeping this definition",
					record.QualifiedName, existing.Path),
			})
		}
		a.classes[record.QualifiedName] = record
	}
}

// Classes exposes the merged class map for the structural passes. The map
// must not be mutated after merging completes.
func (a *Aggregator) Classes() map[string]model.ClassRecord {
	return a.classes
}

// SortedClasses returns the merged records ordered by qualified name.
func (a *Aggregator) SortedClasses() []model.ClassRecord {
	names := make([]string, 0, len(a.classes))
	for name := range a.classes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.ClassRecord, 0, len(names))
	for _, name := range names {
		out = append(out, a.classes[name])
	}
	return out
}

// AddDiagnostics appends diagnostics produced by downstream passes.
func (a *Aggregator) AddDiagnostics(diags []model.Diagnostic) {
	a.diagnostics = append(a.diagnostics, diags...)
}

// Finalize freezes the model. Diagnostics are sorted by unit path (then
// kind and message) so output order does not depend on processing order.
func (a *Aggregator) Finalize(
	root string,
	totalUnits int,
	edges []model.RelationshipEdge,
	endpoints []model.Endpoint,
	batchJobs []model.BatchJob,
	stripMethods bool,
) *model.ProjectModel {
	sort.SliceStable(a.diagnostics, func(i, j int) bool {
		di, dj := a.diagnostics[i], a.diagnostics[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Kind != dj.Kind {
			return di.Kind < dj.Kind
		}
		return di.Message < dj.Message
	})

	classes := a.classes
	if stripMethods {
		classes = make(map[string]model.ClassRecord, len(a.classes))
		for name, rec := range a.classes {
			rec.Methods = nil
			classes[name] = rec
		}
	}

	summary := model.Summary{
		TotalUnits:    totalUnits,
		ParsedUnits:   a.parsedUnits,
		FailedUnits:   a.failedUnits,
		Relationships: len(edges),
		Endpoints:     len(endpoints),
		BatchJobs:     len(batchJobs),
		Diagnostics:   len(a.diagnostics),
		TotalLines:    a.totalLines,
	}
	for _, rec := range classes {
		switch rec.Kind {
		case model.KindClass:
			summary.Classes++
		case model.KindInterface:
			summary.Interfaces++
		case model.KindEnum:
			summary.Enums++
		}
	}

	return model.NewProjectModel(root, classes, edges, endpoints, batchJobs, a.diagnostics, summary)
}

func countLines(source []byte) int {
	if len(source) == 0 {
		return 0
	}
	lines := 1
	for _, b := range source {
		if b == '\n' {
			lines++
		}
	}
	return lines
}
