package analyzer

import (
	"strings"

	"github.com/jlens/jlens/internal/config"
	"github.com/jlens/jlens/internal/model"
)

// BatchDetector scans for scheduling and batch-job markers: scheduling
// annotations on methods and classes, plus batch-suggestive class naming.
// Trigger expressions are preserved verbatim; no cron syntax is evaluated.
type BatchDetector struct {
	markers *config.MarkersConfig
}

// NewBatchDetector creates a batch detector using the given marker tables.
func NewBatchDetector(markers *config.MarkersConfig) *BatchDetector {
	return &BatchDetector{markers: markers}
}

// Detect produces one batch job per match. Class-level annotation matches
// produce batch-class jobs, method-level matches scheduled-method jobs, and
// classes whose names suggest batch infrastructure produce named-batch-class
// jobs when nothing annotated claims them first.
func (d *BatchDetector) Detect(classes []model.ClassRecord) []model.BatchJob {
	jobs := []model.BatchJob{}

	for i := range classes {
		class := &classes[i]
		annotated := false

		for _, ann := range class.Annotations {
			marker, ok := d.markers.BatchMarker(ann.Name)
			if !ok {
				continue
			}
			annotated = true
			jobs = append(jobs, model.BatchJob{
				Class:   class.QualifiedName,
				Kind:    model.BatchClass,
				Trigger: triggerExpression(ann, marker),
			})
		}

		for j := range class.Methods {
			method := &class.Methods[j]
			for _, ann := range method.Annotations {
				marker, ok := d.markers.BatchMarker(ann.Name)
				if !ok {
					continue
				}
				annotated = true
				jobs = append(jobs, model.BatchJob{
					Class:   class.QualifiedName,
					Method:  method.Name,
					Kind:    model.BatchScheduledMethod,
					Trigger: triggerExpression(ann, marker),
				})
			}
		}

		if !annotated && d.nameSuggestsBatch(class.Name) {
			jobs = append(jobs, model.BatchJob{
				Class: class.QualifiedName,
				Kind:  model.BatchNamedClass,
			})
		}
	}

	return jobs
}

// nameSuggestsBatch matches the class name against the configured batch
// naming patterns. Substring matching, as batch infrastructure names embed
// the pattern (UserImportJob, NightlyReportProcessor).
func (d *BatchDetector) nameSuggestsBatch(name string) bool {
	for _, pattern := range d.markers.BatchNamePatterns {
		if strings.Contains(name, pattern) {
			return true
		}
	}
	return false
}

// triggerExpression extracts the trigger from the marker's attribute list in
// order. Cron and positional values are kept bare; other attributes keep
// their name so fixedRate=5000 stays distinguishable from a cron line.
func triggerExpression(ann model.Annotation, marker config.BatchMarker) string {
	for _, arg := range marker.TriggerArgs {
		value, ok := ann.Args[arg]
		if !ok || value == "" {
			continue
		}
		if arg == "cron" || arg == "value" {
			return value
		}
		return arg + "=" + value
	}
	return ann.Value
}
