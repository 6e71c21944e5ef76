package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jlens/jlens/internal/analyzer"
	"github.com/jlens/jlens/internal/config"
	"github.com/jlens/jlens/internal/graphview"
)

var (
	exploreRootFlag  string
	exploreDepthFlag int
)

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore <qualified-class-name>",
	Short: "Explore the relationship graph around a class",
	Long: `Explore analyzes the project and prints the relationship neighborhood of
a single class: its direct relationships, supertypes, subtypes and the set
of classes reachable within a given depth.

Examples:
  jlens explore com.acme.billing.InvoiceService
  jlens explore com.acme.billing.InvoiceService --depth 3 --root /path/to/project
`,
	Args: cobra.ExactArgs(1),
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
	exploreCmd.Flags().StringVar(&exploreRootFlag, "root", "", "Project root (default is the current directory)")
	exploreCmd.Flags().IntVar(&exploreDepthFlag, "depth", 2, "Traversal depth for reachability")
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	rootDir := exploreRootFlag
	if rootDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		rootDir = wd
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a := analyzer.New(cfg)
	m, err := a.Analyze(ctx, rootDir, analyzer.DefaultOptions())
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("analysis cancelled")
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	explorer, err := graphview.NewExplorer(m)
	if err != nil {
		return fmt.Errorf("failed to build relationship graph: %w", err)
	}

	target := args[0]
	if _, ok := m.Class(target); !ok {
		return fmt.Errorf("unknown class %q", target)
	}

	fmt.Printf("%s\n", target)

	if out := explorer.Outgoing(target); len(out) > 0 {
		fmt.Println("\nOutgoing:")
		for _, edge := range out {
			fmt.Printf("  %-14s -> %s (%s)\n", edge.Kind, edge.To, edge.Evidence)
		}
	}
	if in := explorer.Incoming(target); len(in) > 0 {
		fmt.Println("\nIncoming:")
		for _, edge := range in {
			fmt.Printf("  %-14s <- %s (%s)\n", edge.Kind, edge.From, edge.Evidence)
		}
	}
	if supers := explorer.Supertypes(target); len(supers) > 0 {
		fmt.Println("\nSupertypes:")
		for _, name := range supers {
			fmt.Printf("  %s\n", name)
		}
	}
	if subs := explorer.Subtypes(target); len(subs) > 0 {
		fmt.Println("\nSubtypes:")
		for _, name := range subs {
			fmt.Printf("  %s\n", name)
		}
	}

	reachable, err := explorer.Reachable(target, exploreDepthFlag)
	if err != nil {
		return err
	}
	if len(reachable) > 0 {
		fmt.Printf("\nReachable within depth %d:\n", exploreDepthFlag)
		for _, name := range reachable {
			fmt.Printf("  %s\n", name)
		}
	}

	return nil
}
