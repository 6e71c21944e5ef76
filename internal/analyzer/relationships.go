package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jlens/jlens/internal/config"
	"github.com/jlens/jlens/internal/model"
)

// Inferencer derives relationship edges from already-extracted class
// records. It is a purely structural pass over the merged class map: no
// further parsing, no randomness, no clock — rerunning it against the same
// map yields the identical edge set.
//
// Association vs. aggregation vs. composition is classified from
// declared-type shape only. This is best-effort: without lifetime analysis
// there is no ground truth for ownership.
type Inferencer struct {
	classes map[string]model.ClassRecord
	markers *config.MarkersConfig

	// bySimpleName maps a simple class name to sorted qualified names, for
	// resolving unqualified references across packages.
	bySimpleName map[string][]string
}

// NewInferencer builds an inferencer over the merged class map. The map is
// read-only from here on; the simple-name index is populated up front, never
// mutated during inference.
func NewInferencer(classes map[string]model.ClassRecord, markers *config.MarkersConfig) *Inferencer {
	inf := &Inferencer{
		classes:      classes,
		markers:      markers,
		bySimpleName: make(map[string][]string),
	}
	for qualified, rec := range classes {
		inf.bySimpleName[rec.Name] = append(inf.bySimpleName[rec.Name], qualified)
	}
	for name := range inf.bySimpleName {
		sort.Strings(inf.bySimpleName[name])
	}
	return inf
}

// Infer produces the edge set plus unresolved-reference diagnostics for
// declared supertypes that do not resolve within the model.
func (inf *Inferencer) Infer() ([]model.RelationshipEdge, []model.Diagnostic) {
	names := make([]string, 0, len(inf.classes))
	for name := range inf.classes {
		names = append(names, name)
	}
	sort.Strings(names)

	var edges []model.RelationshipEdge
	var diags []model.Diagnostic
	seen := map[string]bool{}

	add := func(edge model.RelationshipEdge) {
		// One edge per (from, to, kind); the first evidence wins, in
		// declaration order.
		key := edge.From + "\x00" + edge.To + "\x00" + string(edge.Kind)
		if seen[key] {
			return
		}
		seen[key] = true
		edges = append(edges, edge)
	}

	for _, name := range names {
		class := inf.classes[name]

		for _, ref := range class.Extends {
			if target, ok := inf.resolve(ref, class); ok {
				add(model.RelationshipEdge{
					From:     class.QualifiedName,
					To:       target,
					Kind:     model.EdgeInheritance,
					Evidence: "extends " + ref,
				})
			} else {
				diags = append(diags, unresolvedDiagnostic(class, "extends", ref))
			}
		}

		for _, ref := range class.Implements {
			if target, ok := inf.resolve(ref, class); ok {
				add(model.RelationshipEdge{
					From:     class.QualifiedName,
					To:       target,
					Kind:     model.EdgeImplementation,
					Evidence: "implements " + ref,
				})
			} else {
				diags = append(diags, unresolvedDiagnostic(class, "implements", ref))
			}
		}

		for _, field := range class.Fields {
			for _, edge := range inf.classifyField(class, field) {
				add(edge)
			}
		}
	}

	return edges, diags
}

// classifyField derives zero or more edges from one field's declared type.
func (inf *Inferencer) classifyField(class model.ClassRecord, field model.FieldRecord) []model.RelationshipEdge {
	bases, isCollection := inf.unwrapType(field.Type)

	var edges []model.RelationshipEdge
	for _, base := range bases {
		target, ok := inf.resolve(base, class)
		if !ok {
			// Field types referencing classes outside the model produce no
			// edge and no diagnostic; only declared supertypes do.
			continue
		}

		kind := model.EdgeAssociation
		switch {
		case isCollection:
			kind = model.EdgeAggregation
		case !inf.hasSharedAccessor(class, base):
			kind = model.EdgeComposition
		}

		edges = append(edges, model.RelationshipEdge{
			From:     class.QualifiedName,
			To:       target,
			Kind:     kind,
			Evidence: field.Name + " " + field.Type,
		})
	}
	return edges
}

// unwrapType strips container and generic wrapper notation from a declared
// type, returning the candidate element types and whether the declaration
// represents "many of" the element.
//
//	B            -> [B],    false
//	B[]          -> [B],    true
//	List<B>      -> [B],    true
//	Map<K, V>    -> [K, V], true
//	Optional<B>  -> [B],    false
func (inf *Inferencer) unwrapType(declared string) ([]string, bool) {
	t := strings.TrimSpace(declared)
	if t == "" {
		return nil, false
	}

	if strings.HasSuffix(t, "[]") {
		return []string{strings.TrimSpace(strings.TrimSuffix(t, "[]"))}, true
	}

	open := strings.Index(t, "<")
	if open < 0 {
		return []string{t}, false
	}

	outer := strings.TrimSpace(t[:open])
	args := splitTypeArgs(t[open+1 : strings.LastIndex(t, ">")])

	if inf.markers.IsCollection(simpleName(outer)) {
		var bases []string
		for _, arg := range args {
			base, _ := inf.unwrapType(arg)
			bases = append(bases, base...)
		}
		return bases, true
	}

	// Non-collection wrappers (Optional and friends): classify by the
	// wrapped type but without the "many of" signal.
	if simpleName(outer) == "Optional" && len(args) == 1 {
		bases, many := inf.unwrapType(args[0])
		return bases, many
	}

	// A generic class reference like Repository<User> points at the outer
	// type itself.
	return []string{outer}, false
}

// splitTypeArgs splits a generic argument list at top-level commas.
func splitTypeArgs(args string) []string {
	var parts []string
	depth := 0
	start := 0
	for i, r := range args {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(args[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(args[start:]); last != "" {
		parts = append(parts, last)
	}
	return parts
}

// hasSharedAccessor reports whether the class exposes a non-private method
// returning the given type — the signal that the referenced instance may be
// shared rather than owned.
func (inf *Inferencer) hasSharedAccessor(class model.ClassRecord, base string) bool {
	want := simpleName(base)
	for i := range class.Methods {
		m := &class.Methods[i]
		if m.IsPrivate() {
			continue
		}
		returned, _ := inf.unwrapType(m.ReturnType)
		for _, r := range returned {
			if simpleName(r) == want {
				return true
			}
		}
	}
	return false
}

// resolve maps a declared type reference to a qualified name present in the
// model. Resolution is partial without a classpath: exact qualified match,
// then the referencing class's own scope walking outward, then a unique-ish
// simple-name match (lexicographically first candidate, for determinism).
func (inf *Inferencer) resolve(ref string, from model.ClassRecord) (string, bool) {
	base := strings.TrimSpace(ref)
	if idx := strings.Index(base, "<"); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}
	base = strings.TrimSuffix(base, "[]")
	if base == "" {
		return "", false
	}

	if _, ok := inf.classes[base]; ok {
		return base, true
	}

	// Walk enclosing scopes: pkg.Outer.Inner sees pkg.Outer.Inner.Ref,
	// pkg.Outer.Ref, then pkg.Ref.
	scope := from.QualifiedName
	for scope != "" {
		candidate := scope + "." + base
		if _, ok := inf.classes[candidate]; ok {
			return candidate, true
		}
		idx := strings.LastIndex(scope, ".")
		if idx < 0 {
			break
		}
		scope = scope[:idx]
	}

	if candidates, ok := inf.bySimpleName[simpleName(base)]; ok && len(candidates) > 0 {
		return candidates[0], true
	}

	return "", false
}

func simpleName(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func unresolvedDiagnostic(class model.ClassRecord, relation, ref string) model.Diagnostic {
	return model.Diagnostic{
		Path:     class.Path,
		Severity: model.SeverityWarning,
		Kind:     model.DiagUnresolvedReference,
		Message:  fmt.Sprintf("%s %s %q: no matching class in model, edge dropped", class.QualifiedName, relation, ref),
	}
}
