// Package loader enumerates the source units of an extracted project tree:
// glob-filtered discovery, deterministic ordering, and architectural layer
// tagging from path conventions.
package loader

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/jlens/jlens/internal/config"
	"github.com/jlens/jlens/internal/model"
)

// compiledPattern holds the pattern string and its compiled globs. Patterns
// with a "**/" prefix also get a bare-suffix glob so root-level files match.
type compiledPattern struct {
	pattern string
	globs   []glob.Glob
}

func compilePattern(pattern string) (compiledPattern, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return compiledPattern{}, err
	}
	cp := compiledPattern{pattern: pattern, globs: []glob.Glob{g}}
	if strings.HasPrefix(pattern, "**/") {
		if bare, err := glob.Compile(strings.TrimPrefix(pattern, "**/"), '/'); err == nil {
			cp.globs = append(cp.globs, bare)
		}
	}
	return cp, nil
}

// Loader discovers source units under a project root.
type Loader interface {
	// Discover walks the root and returns source units ordered
	// lexicographically by relative path.
	Discover() ([]model.SourceUnit, error)
}

// loader implements Loader with glob include/ignore rules and a layer
// keyword table.
type loader struct {
	rootDir         string
	includePatterns []compiledPattern
	ignorePatterns  []compiledPattern
	layerRules      []config.LayerRule
}

// New creates a loader for the given root directory.
func New(rootDir string, cfg *config.Config) (Loader, error) {
	l := &loader{
		rootDir:    rootDir,
		layerRules: cfg.Layers,
	}

	for _, pattern := range cfg.Paths.Include {
		cp, err := compilePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		l.includePatterns = append(l.includePatterns, cp)
	}

	for _, pattern := range cfg.Paths.Ignore {
		cp, err := compilePattern(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		l.ignorePatterns = append(l.ignorePatterns, cp)
	}

	return l, nil
}

// Discover walks the directory tree and returns the matching source units.
// An unreadable root is fatal; unreadable individual files are skipped with
// a warning so one bad file cannot abort discovery.
func (l *loader) Discover() ([]model.SourceUnit, error) {
	if _, err := os.Stat(l.rootDir); err != nil {
		return nil, fmt.Errorf("project root unreadable: %w", err)
	}

	units := []model.SourceUnit{}

	err := filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(l.rootDir, path)
		if err != nil {
			return err
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if l.shouldIgnore(relPath) {
			return nil
		}

		if !l.matchesAnyPattern(relPath, l.includePatterns) {
			return nil
		}

		source, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warning: failed to read %s: %v\n", relPath, err)
			return nil
		}

		units = append(units, model.SourceUnit{
			Path:   relPath,
			Source: source,
			Layer:  l.classifyLayer(relPath),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk project tree: %w", err)
	}

	// Deterministic ordering so downstream diagnostics order is reproducible.
	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })

	return units, nil
}

// shouldIgnore checks if a path matches any ignore pattern.
func (l *loader) shouldIgnore(relPath string) bool {
	if l.matchesAnyPattern(relPath, l.ignorePatterns) {
		return true
	}

	// A bare directory name should also match its "dir/**" pattern, so
	// "target" is ignored when the pattern says "target/**".
	pathWithSuffix := relPath + "/**"
	for _, p := range l.ignorePatterns {
		if p.pattern == pathWithSuffix {
			return true
		}
	}

	return false
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (l *loader) matchesAnyPattern(relPath string, patterns []compiledPattern) bool {
	for _, p := range patterns {
		for _, g := range p.globs {
			if g.Match(relPath) {
				return true
			}
		}
	}
	return false
}

// classifyLayer matches path segments against the layer keyword table,
// first rule wins. Unmatched units get LayerUnknown.
func (l *loader) classifyLayer(relPath string) model.Layer {
	lowered := strings.ToLower(relPath)
	for _, rule := range l.layerRules {
		if strings.Contains(lowered, strings.ToLower(rule.Keyword)) {
			return model.Layer(rule.Layer)
		}
	}
	return model.LayerUnknown
}
