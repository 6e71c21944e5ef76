package analyzer

import (
	"strings"

	"github.com/jlens/jlens/internal/config"
	"github.com/jlens/jlens/internal/model"
)

// APIDetector scans class and method annotations for HTTP-mapping markers.
// Detection is entirely table-driven: the marker table in the configuration
// decides which annotations count and what they contribute.
type APIDetector struct {
	markers *config.MarkersConfig
}

// NewAPIDetector creates an API detector using the given marker tables.
func NewAPIDetector(markers *config.MarkersConfig) *APIDetector {
	return &APIDetector{markers: markers}
}

// Detect produces endpoint records for every method carrying at least one
// verb-bearing mapping annotation. A method with multiple verb annotations
// produces one endpoint per verb. Duplicate paths across controllers are
// reported as found, not deduplicated.
func (d *APIDetector) Detect(classes []model.ClassRecord) []model.Endpoint {
	endpoints := []model.Endpoint{}

	for i := range classes {
		class := &classes[i]
		basePath := d.classBasePath(class)

		for j := range class.Methods {
			method := &class.Methods[j]
			verbs, methodPath := d.methodMapping(method)
			if len(verbs) == 0 {
				continue
			}

			path := joinPath(basePath, methodPath)
			params := pathParams(path)
			for _, verb := range verbs {
				endpoints = append(endpoints, model.Endpoint{
					Class:      class.QualifiedName,
					Method:     method.Name,
					HTTPMethod: verb,
					Path:       path,
					PathParams: params,
				})
			}
		}
	}

	return endpoints
}

// classBasePath extracts the class-level base path from any path-bearing
// marker on the class.
func (d *APIDetector) classBasePath(class *model.ClassRecord) string {
	for _, ann := range class.Annotations {
		marker, ok := d.markers.EndpointMarker(ann.Name)
		if !ok || !marker.PathBearing {
			continue
		}
		if frag := pathFragment(ann); frag != "" {
			return frag
		}
	}
	return ""
}

// methodMapping returns the HTTP verbs a method's annotations imply and the
// method-level path fragment.
func (d *APIDetector) methodMapping(method *model.MethodRecord) ([]string, string) {
	var verbs []string
	var path string
	seen := map[string]bool{}

	addVerb := func(verb string) {
		verb = strings.ToUpper(strings.TrimSpace(verb))
		if verb == "" || seen[verb] {
			return
		}
		seen[verb] = true
		verbs = append(verbs, verb)
	}

	for _, ann := range method.Annotations {
		marker, ok := d.markers.EndpointMarker(ann.Name)
		if !ok {
			continue
		}

		if marker.PathBearing && path == "" {
			path = pathFragment(ann)
		}

		if !marker.VerbBearing {
			continue
		}

		if marker.Verb != "" {
			addVerb(marker.Verb)
			continue
		}

		// RequestMapping style: verbs come from the method attribute,
		// possibly a list; absent means GET.
		attr := ann.Args["method"]
		if attr == "" {
			addVerb("GET")
			continue
		}
		for _, part := range strings.Split(attr, ",") {
			part = strings.TrimSpace(part)
			// RequestMethod.GET -> GET
			if idx := strings.LastIndex(part, "."); idx >= 0 {
				part = part[idx+1:]
			}
			addVerb(part)
		}
	}

	return verbs, path
}

// pathFragment pulls the path value out of an annotation: the positional
// value, or the value/path named attributes. Multi-valued mappings keep
// their first path.
func pathFragment(ann model.Annotation) string {
	candidates := []string{ann.Value, ann.Args["value"], ann.Args["path"]}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if idx := strings.Index(c, ","); idx >= 0 {
			c = c[:idx]
		}
		return strings.TrimSpace(c)
	}
	return ""
}

// joinPath concatenates class-level and method-level path fragments with
// normalized separators: single slashes throughout, no trailing slash.
func joinPath(base, fragment string) string {
	var segments []string
	for _, part := range strings.Split(base+"/"+fragment, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return "/" + strings.Join(segments, "/")
}

// pathParams extracts the {name} template parameters of a path in order.
func pathParams(path string) []string {
	var params []string
	for {
		open := strings.Index(path, "{")
		if open < 0 {
			return params
		}
		end := strings.Index(path[open:], "}")
		if end < 0 {
			return params
		}
		params = append(params, path[open+1:open+end])
		path = path[open+end+1:]
	}
}
