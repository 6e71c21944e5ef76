package analyzer

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jlens/jlens/internal/config"
	"github.com/jlens/jlens/internal/model"
)

// Test Plan for the full pipeline:
// - Discovers and parses the sample project, ignoring target/
// - One broken unit fails without aborting the other five
// - Class records carry layers from path conventions
// - Relationship edges: composition, aggregation, association, and an
//   unresolved supertype diagnostic
// - Endpoints combine class-level and method-level mappings
// - Scheduled methods surface as batch jobs
// - Options toggle each detector independently
// - Functions=false strips method listings but endpoints still detect
// - Repeated runs produce byte-identical models
// - Cancelled context aborts with an error

const sampleProject = "../../testdata/java/sample"

func analyzeSample(t *testing.T, opts Options) *model.ProjectModel {
	t.Helper()

	root, err := filepath.Abs(sampleProject)
	require.NoError(t, err)

	m, err := New(config.Default()).Analyze(context.Background(), root, opts)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func TestAnalyze_UnitAccounting(t *testing.T) {
	t.Parallel()

	m := analyzeSample(t, DefaultOptions())

	s := m.Summary()
	assert.Equal(t, 6, s.TotalUnits, "target/ must be ignored")
	assert.Equal(t, 5, s.ParsedUnits)
	assert.Equal(t, 1, s.FailedUnits)
	assert.Equal(t, 5, s.Classes)
	assert.Equal(t, 1, s.Interfaces)
}

func TestAnalyze_ClassesAndLayers(t *testing.T) {
	t.Parallel()

	m := analyzeSample(t, DefaultOptions())

	assert.Equal(t, []string{
		"com.acme.store.batch.NightlyExportJob",
		"com.acme.store.controller.ProductController",
		"com.acme.store.model.Product",
		"com.acme.store.model.Product.Category",
		"com.acme.store.repository.ProductRepository",
		"com.acme.store.service.ProductService",
	}, m.ClassNames())

	controller, ok := m.Class("com.acme.store.controller.ProductController")
	require.True(t, ok)
	assert.Equal(t, model.LayerController, controller.Layer)
	assert.True(t, controller.HasAnnotation("RestController"))

	service, _ := m.Class("com.acme.store.service.ProductService")
	assert.Equal(t, model.LayerService, service.Layer)

	repo, _ := m.Class("com.acme.store.repository.ProductRepository")
	assert.Equal(t, model.LayerRepository, repo.Layer)
	assert.Equal(t, model.KindInterface, repo.Kind)

	job, _ := m.Class("com.acme.store.batch.NightlyExportJob")
	assert.Equal(t, model.LayerUnknown, job.Layer)
}

func TestAnalyze_Relationships(t *testing.T) {
	t.Parallel()

	m := analyzeSample(t, DefaultOptions())

	kinds := map[string]model.EdgeKind{}
	for _, e := range m.Edges() {
		kinds[e.From+"->"+e.To] = e.Kind
	}

	assert.Equal(t, model.EdgeComposition,
		kinds["com.acme.store.controller.ProductController->com.acme.store.service.ProductService"])
	assert.Equal(t, model.EdgeComposition,
		kinds["com.acme.store.service.ProductService->com.acme.store.repository.ProductRepository"])
	assert.Equal(t, model.EdgeComposition,
		kinds["com.acme.store.model.Product->com.acme.store.model.Product.Category"])

	// cache List<Product> and lastViewed Product produce distinct kinds to
	// the same target.
	serviceToProduct := map[model.EdgeKind]bool{}
	for _, e := range m.Edges() {
		if e.From == "com.acme.store.service.ProductService" && e.To == "com.acme.store.model.Product" {
			serviceToProduct[e.Kind] = true
		}
	}
	assert.True(t, serviceToProduct[model.EdgeAggregation])
	assert.True(t, serviceToProduct[model.EdgeAssociation])

	assert.Len(t, m.Edges(), 5)
}

func TestAnalyze_Diagnostics(t *testing.T) {
	t.Parallel()

	m := analyzeSample(t, DefaultOptions())

	diags := m.Diagnostics()
	require.Len(t, diags, 2)

	assert.Equal(t, model.DiagParseFailure, diags[0].Kind)
	assert.Equal(t, "src/main/java/com/acme/store/Broken.java", diags[0].Path)

	assert.Equal(t, model.DiagUnresolvedReference, diags[1].Kind)
	assert.Contains(t, diags[1].Message, "CrudRepository")
}

func TestAnalyze_Endpoints(t *testing.T) {
	t.Parallel()

	m := analyzeSample(t, DefaultOptions())

	endpoints := m.Endpoints()
	require.Len(t, endpoints, 3)

	assert.Equal(t, model.Endpoint{
		Class:      "com.acme.store.controller.ProductController",
		Method:     "get",
		HTTPMethod: "GET",
		Path:       "/api/products/{id}",
		PathParams: []string{"id"},
	}, endpoints[0])

	assert.Equal(t, "POST", endpoints[1].HTTPMethod)
	assert.Equal(t, "/api/products", endpoints[1].Path)

	assert.Equal(t, "GET", endpoints[2].HTTPMethod)
	assert.Equal(t, "/api/products/search", endpoints[2].Path)
}

func TestAnalyze_BatchJobs(t *testing.T) {
	t.Parallel()

	m := analyzeSample(t, DefaultOptions())

	jobs := m.BatchJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, model.BatchJob{
		Class:   "com.acme.store.batch.NightlyExportJob",
		Method:  "export",
		Kind:    model.BatchScheduledMethod,
		Trigger: "0 0 2 * * *",
	}, jobs[0])
}

func TestAnalyze_OptionToggles(t *testing.T) {
	t.Parallel()

	m := analyzeSample(t, Options{Structure: false, APIs: false, Functions: true, Batch: false})

	assert.Empty(t, m.Edges())
	assert.Empty(t, m.Endpoints())
	assert.Empty(t, m.BatchJobs())

	// Structural extraction is unaffected by detector toggles.
	assert.Len(t, m.ClassNames(), 6)

	service, _ := m.Class("com.acme.store.service.ProductService")
	assert.NotEmpty(t, service.Methods)
}

func TestAnalyze_FunctionsOffKeepsEndpoints(t *testing.T) {
	t.Parallel()

	m := analyzeSample(t, Options{Structure: true, APIs: true, Functions: false, Batch: true})

	assert.Len(t, m.Endpoints(), 3, "detection runs before method stripping")
	assert.Len(t, m.BatchJobs(), 1)

	controller, _ := m.Class("com.acme.store.controller.ProductController")
	assert.Empty(t, controller.Methods)
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := json.Marshal(analyzeSample(t, DefaultOptions()))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := json.Marshal(analyzeSample(t, DefaultOptions()))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestAnalyze_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(config.Default()).Analyze(context.Background(), filepath.Join(t.TempDir(), "nope"), DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to discover source units")
}

func TestAnalyze_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root, err := filepath.Abs(sampleProject)
	require.NoError(t, err)

	_, err = New(config.Default()).Analyze(ctx, root, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
