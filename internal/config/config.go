// Package config holds the analysis configuration: which files to load,
// how to classify layers, and the annotation marker tables driving the
// API and batch detectors.
package config

// Config represents the complete jlens configuration.
// It can be loaded from .jlens.yml with environment variable overrides.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Layers  []LayerRule   `yaml:"layers" mapstructure:"layers"`
	Parser  ParserConfig  `yaml:"parser" mapstructure:"parser"`
	Markers MarkersConfig `yaml:"markers" mapstructure:"markers"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// LayerRule maps a path keyword to an architectural layer. Rules are
// evaluated in order; the first keyword found in a unit's path wins.
type LayerRule struct {
	Keyword string `yaml:"keyword" mapstructure:"keyword"`
	Layer   string `yaml:"layer" mapstructure:"layer"`
}

// ParserConfig bounds per-unit parsing.
type ParserConfig struct {
	MaxFileSize int `yaml:"max_file_size" mapstructure:"max_file_size"` // bytes; oversize units become parse failures
	Workers     int `yaml:"workers" mapstructure:"workers"`             // 0 means one per CPU
}

// MarkersConfig holds the annotation marker tables. Detectors are driven
// entirely by these tables so new frameworks' conventions can be added
// without touching detector logic.
type MarkersConfig struct {
	Endpoints         []EndpointMarker `yaml:"endpoints" mapstructure:"endpoints"`
	Batch             []BatchMarker    `yaml:"batch" mapstructure:"batch"`
	BatchNamePatterns []string         `yaml:"batch_name_patterns" mapstructure:"batch_name_patterns"`
	Collections       []string         `yaml:"collections" mapstructure:"collections"`
}

// EndpointMarker describes one HTTP-mapping annotation.
type EndpointMarker struct {
	Name string `yaml:"name" mapstructure:"name"`
	// Verb is the fixed HTTP verb this marker implies. Empty means the verb
	// comes from the annotation's "method" attribute (RequestMapping style),
	// defaulting to GET.
	Verb string `yaml:"verb" mapstructure:"verb"`
	// PathBearing marks annotations whose value/path attribute carries a
	// path fragment.
	PathBearing bool `yaml:"path_bearing" mapstructure:"path_bearing"`
	// VerbBearing marks annotations whose presence on a method makes it an
	// endpoint. Path-only markers (JAX-RS @Path) are not verb-bearing.
	VerbBearing bool `yaml:"verb_bearing" mapstructure:"verb_bearing"`
}

// BatchMarker describes one scheduling annotation and the attributes that
// carry its trigger expression, in lookup order.
type BatchMarker struct {
	Name        string   `yaml:"name" mapstructure:"name"`
	TriggerArgs []string `yaml:"trigger_args" mapstructure:"trigger_args"`
}

// Default returns a configuration with sensible defaults covering Spring
// MVC, JAX-RS, Spring scheduling, and Quartz conventions.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{"**/*.java"},
			Ignore: []string{
				"target/**",
				"build/**",
				"out/**",
				"bin/**",
				".git/**",
				"**/generated/**",
			},
		},
		Layers: []LayerRule{
			{Keyword: "controller", Layer: "controller"},
			{Keyword: "resource", Layer: "controller"},
			{Keyword: "service", Layer: "service"},
			{Keyword: "repository", Layer: "repository"},
			{Keyword: "dao", Layer: "repository"},
			{Keyword: "entity", Layer: "model"},
			{Keyword: "model", Layer: "model"},
			{Keyword: "domain", Layer: "model"},
			{Keyword: "config", Layer: "config"},
		},
		Parser: ParserConfig{
			MaxFileSize: 1 << 20, // 1 MiB
			Workers:     0,
		},
		Markers: MarkersConfig{
			Endpoints: []EndpointMarker{
				{Name: "GetMapping", Verb: "GET", PathBearing: true, VerbBearing: true},
				{Name: "PostMapping", Verb: "POST", PathBearing: true, VerbBearing: true},
				{Name: "PutMapping", Verb: "PUT", PathBearing: true, VerbBearing: true},
				{Name: "DeleteMapping", Verb: "DELETE", PathBearing: true, VerbBearing: true},
				{Name: "PatchMapping", Verb: "PATCH", PathBearing: true, VerbBearing: true},
				{Name: "RequestMapping", Verb: "", PathBearing: true, VerbBearing: true},
				{Name: "GET", Verb: "GET", VerbBearing: true},
				{Name: "POST", Verb: "POST", VerbBearing: true},
				{Name: "PUT", Verb: "PUT", VerbBearing: true},
				{Name: "DELETE", Verb: "DELETE", VerbBearing: true},
				{Name: "HEAD", Verb: "HEAD", VerbBearing: true},
				{Name: "OPTIONS", Verb: "OPTIONS", VerbBearing: true},
				{Name: "Path", PathBearing: true},
			},
			Batch: []BatchMarker{
				{Name: "Scheduled", TriggerArgs: []string{"cron", "fixedRate", "fixedDelay", "fixedRateString", "fixedDelayString"}},
				{Name: "Schedule", TriggerArgs: []string{"cron", "value"}},
				{Name: "Schedules", TriggerArgs: []string{"value"}},
				{Name: "Job", TriggerArgs: []string{"value"}},
				{Name: "BatchJob", TriggerArgs: []string{"value"}},
				{Name: "Quartz", TriggerArgs: []string{"value"}},
			},
			BatchNamePatterns: []string{
				"BatchJob", "Job", "Processor", "Reader", "Writer",
				"TaskExecutor", "Scheduler", "QuartzJob", "Tasklet",
			},
			Collections: []string{
				"List", "ArrayList", "LinkedList", "Set", "HashSet",
				"TreeSet", "Collection", "Iterable", "Map", "HashMap",
				"TreeMap", "Queue", "Deque", "Vector",
			},
		},
	}
}

// EndpointMarker looks up an endpoint marker by annotation name.
func (m *MarkersConfig) EndpointMarker(name string) (EndpointMarker, bool) {
	for _, marker := range m.Endpoints {
		if marker.Name == name {
			return marker, true
		}
	}
	return EndpointMarker{}, false
}

// BatchMarker looks up a batch marker by annotation name.
func (m *MarkersConfig) BatchMarker(name string) (BatchMarker, bool) {
	for _, marker := range m.Batch {
		if marker.Name == name {
			return marker, true
		}
	}
	return BatchMarker{}, false
}

// IsCollection reports whether a type name is a recognized collection or
// container wrapper.
func (m *MarkersConfig) IsCollection(typeName string) bool {
	for _, c := range m.Collections {
		if c == typeName {
			return true
		}
	}
	return false
}
