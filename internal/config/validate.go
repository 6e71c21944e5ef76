package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoIncludePatterns indicates the include pattern list is empty
	ErrNoIncludePatterns = errors.New("no include patterns")

	// ErrInvalidFileSize indicates an invalid parser file size cap
	ErrInvalidFileSize = errors.New("invalid max file size")

	// ErrInvalidWorkers indicates an invalid worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidLayerRule indicates an incomplete layer rule
	ErrInvalidLayerRule = errors.New("invalid layer rule")

	// ErrInvalidMarker indicates an incomplete marker table entry
	ErrInvalidMarker = errors.New("invalid marker")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if len(cfg.Paths.Include) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one include pattern required", ErrNoIncludePatterns))
	}

	if cfg.Parser.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_size cannot be negative, got %d", ErrInvalidFileSize, cfg.Parser.MaxFileSize))
	}

	if cfg.Parser.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidWorkers, cfg.Parser.Workers))
	}

	for _, rule := range cfg.Layers {
		if strings.TrimSpace(rule.Keyword) == "" || strings.TrimSpace(rule.Layer) == "" {
			errs = append(errs, fmt.Errorf("%w: keyword and layer are both required, got %q -> %q", ErrInvalidLayerRule, rule.Keyword, rule.Layer))
		}
	}

	for _, marker := range cfg.Markers.Endpoints {
		if strings.TrimSpace(marker.Name) == "" {
			errs = append(errs, fmt.Errorf("%w: endpoint marker requires a name", ErrInvalidMarker))
		}
	}

	for _, marker := range cfg.Markers.Batch {
		if strings.TrimSpace(marker.Name) == "" {
			errs = append(errs, fmt.Errorf("%w: batch marker requires a name", ErrInvalidMarker))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
