package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/jlens/jlens/internal/model"
)

// CLIProgressReporter implements progress reporting with progress bars.
type CLIProgressReporter struct {
	quiet          bool
	unitBar        *progressbar.ProgressBar
	startTime      time.Time
	totalUnits     int
	processedUnits int
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering source files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(units int) {
	if c.quiet {
		return
	}
	log.Printf("Found %d Java source files\n", units)
}

func (c *CLIProgressReporter) OnUnitProcessingStart(totalUnits int) {
	if c.quiet {
		return
	}
	c.totalUnits = totalUnits
	c.processedUnits = 0

	c.unitBar = progressbar.NewOptions(totalUnits,
		progressbar.OptionSetDescription("Parsing sources"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}

func (c *CLIProgressReporter) OnUnitProcessed(path string) {
	if c.quiet {
		return
	}
	if c.unitBar != nil {
		c.processedUnits++
		c.unitBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnAnalysisComplete(summary model.Summary, duration time.Duration) {
	if c.quiet {
		return
	}

	fmt.Println()
	fmt.Printf("✓ Analysis complete: %d classes in %.1fs\n", summary.Classes, duration.Seconds())
	fmt.Printf("  Units:         %d parsed, %d failed\n", summary.ParsedUnits, summary.FailedUnits)
	fmt.Printf("  Relationships: %d\n", summary.Relationships)
	fmt.Printf("  Endpoints:     %d\n", summary.Endpoints)
	fmt.Printf("  Batch jobs:    %d\n", summary.BatchJobs)
	if summary.Diagnostics > 0 {
		fmt.Printf("  Diagnostics:   %d\n", summary.Diagnostics)
	}
}
