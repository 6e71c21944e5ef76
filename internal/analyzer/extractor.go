// Package analyzer turns parsed source units into the project model: entity
// extraction, relationship inference, API and batch detection, and the
// aggregation pass that produces the finalized ProjectModel.
package analyzer

import (
	"fmt"

	"github.com/jlens/jlens/internal/javasrc"
	"github.com/jlens/jlens/internal/model"
)

// ExtractClasses converts one parsed unit's syntax model into canonical
// class records. Nested types are flattened into independent records whose
// qualified names reflect nesting (pkg.Outer.Inner); no relationship edge
// between inner and outer is implied here.
func ExtractClasses(parsed javasrc.ParsedUnit) []model.ClassRecord {
	if !parsed.OK() || parsed.Syntax == nil {
		return nil
	}

	var records []model.ClassRecord
	for _, decl := range parsed.Syntax.Types {
		records = append(records, flattenType(decl, parsed, parsed.Syntax.Package, "")...)
	}
	return records
}

// flattenType converts one type declaration and its nested declarations,
// depth-first so outer records precede inner ones.
func flattenType(decl javasrc.TypeDecl, parsed javasrc.ParsedUnit, pkg, outer string) []model.ClassRecord {
	qualified := decl.Name
	switch {
	case outer != "":
		qualified = outer + "." + decl.Name
	case pkg != "":
		qualified = pkg + "." + decl.Name
	}

	record := model.ClassRecord{
		QualifiedName: qualified,
		Name:          decl.Name,
		Package:       pkg,
		Kind:          decl.Kind,
		Layer:         parsed.Unit.Layer,
		Path:          parsed.Unit.Path,
		Annotations:   decl.Annotations,
		Extends:       decl.Extends,
		Implements:    decl.Implements,
		Fields:        decl.Fields,
		Methods:       decl.Methods,
	}

	records := []model.ClassRecord{record}
	for _, nested := range decl.Nested {
		records = append(records, flattenType(nested, parsed, pkg, qualified)...)
	}
	return records
}

// UnsupportedDiagnostics reports top-level constructs the syntax model does
// not represent; extraction of the rest of the unit is unaffected.
func UnsupportedDiagnostics(parsed javasrc.ParsedUnit) []model.Diagnostic {
	if !parsed.OK() || parsed.Syntax == nil {
		return nil
	}
	var diags []model.Diagnostic
	for _, kind := range parsed.Syntax.Unsupported {
		diags = append(diags, model.Diagnostic{
			Path:     parsed.Unit.Path,
			Severity: model.SeverityWarning,
			Kind:     model.DiagUnsupportedConstruct,
			Message:  fmt.Sprintf("construct %q is not modeled; unit extracted without it", kind),
		})
	}
	return diags
}
