package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jlens/jlens/internal/analyzer"
	"github.com/jlens/jlens/internal/config"
	"github.com/jlens/jlens/internal/model"
	"github.com/jlens/jlens/internal/watcher"
)

var (
	quietFlag     bool
	watchFlag     bool
	outputFlag    string
	structureFlag bool
	apisFlag      bool
	functionsFlag bool
	batchFlag     bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Analyze a Java project and build its structural model",
	Long: `Analyze parses all Java sources under the project root and builds a
structural model of the project.

The analyzer:
  - Discovers .java files (respecting include/ignore patterns)
  - Parses each file and extracts classes, interfaces, enums and annotations
  - Infers relationships between classes (inheritance, composition, ...)
  - Detects HTTP endpoints (Spring MVC, JAX-RS)
  - Detects batch jobs (@Scheduled, Spring Batch markers, naming conventions)

Examples:
  # Analyze the current directory
  jlens analyze

  # Analyze a specific directory and write the model as JSON
  jlens analyze /path/to/project -o model.json

  # Skip endpoint and batch detection
  jlens analyze --apis=false --batch=false

  # Watch for changes and re-analyze
  jlens analyze --watch
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars and non-error output")
	analyzeCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch for file changes and re-analyze")
	analyzeCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the project model as JSON to this file (\"-\" for stdout)")
	analyzeCmd.Flags().BoolVar(&structureFlag, "structure", true, "Infer relationships between classes")
	analyzeCmd.Flags().BoolVar(&apisFlag, "apis", true, "Detect HTTP endpoints")
	analyzeCmd.Flags().BoolVar(&functionsFlag, "functions", true, "Include method details in the model")
	analyzeCmd.Flags().BoolVar(&batchFlag, "batch", true, "Detect batch jobs")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Set up context with cancellation for Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling analysis...")
		cancel()
	}()

	// Determine root directory
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	if len(args) == 1 {
		rootDir = args[0]
	}

	// Load configuration from .jlens.yml (falls back to defaults)
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	opts := analyzer.Options{
		Structure: structureFlag,
		APIs:      apisFlag,
		Functions: functionsFlag,
		Batch:     batchFlag,
	}

	progress := NewCLIProgressReporter(quietFlag)
	a := analyzer.New(cfg, analyzer.WithProgress(progress))

	runOnce := func(ctx context.Context) (*model.ProjectModel, error) {
		m, err := a.Analyze(ctx, rootDir, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("analysis cancelled")
			}
			return nil, fmt.Errorf("analysis failed: %w", err)
		}
		if err := writeModel(m, outputFlag); err != nil {
			return nil, err
		}
		return m, nil
	}

	m, err := runOnce(ctx)
	if err != nil {
		return err
	}

	if quietFlag {
		s := m.Summary()
		fmt.Printf("Analysis complete: %d classes, %d relationships, %d endpoints, %d batch jobs\n",
			s.Classes, s.Relationships, s.Endpoints, s.BatchJobs)
	}

	if watchFlag {
		if !quietFlag {
			log.Println("Starting watch mode...")
		}
		w, err := watcher.New(rootDir, []string{".java"}, runOnce)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		w.Start(ctx)
		<-ctx.Done()
		w.Stop()
		if !quietFlag {
			log.Println("Watch mode stopped")
		}
	}

	return nil
}

// writeModel serializes the model as JSON to the given destination. An empty
// destination means no output; "-" means stdout.
func writeModel(m *model.ProjectModel, dest string) error {
	if dest == "" {
		return nil
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize project model: %w", err)
	}
	data = append(data, '\n')

	if dest == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
