package cmd

import (
	"fmt"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lookalike/internal/catalog"
	"lookalike/internal/config"
	"lookalike/internal/imaging"
)

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the roster and materialize every character image",
	Long: `Validate the character roster and try to materialize every
character image, reporting entries whose art cannot be loaded.

Examples:
  # Check the bundled roster
  lookalike catalog check

  # Check a custom roster with local art
  CATALOG_PATH=roster.json CATALOG_ASSET_DIR=./art lookalike catalog check`,
	RunE: runCatalogCheck,
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd)

	catalogCheckCmd.Flags().Int("concurrency", 4, "Number of images to materialize in parallel")
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := newLogger()
	concurrency := mustGetInt(cmd, "concurrency")

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("loading character catalog: %w", err)
	}
	fmt.Printf("Roster OK: %d characters, all ids unique\n\n", cat.Len())

	// Check always uses the exclude policy so broken art surfaces as an
	// error instead of disappearing behind the placeholder.
	materializer := imaging.NewMaterializer(imaging.PolicyExclude, cfg.Catalog.AssetDir, cfg.Match.MaxImageEdge, log)

	bar := progressbar.NewOptions(cat.Len(),
		progressbar.OptionSetDescription("Materializing images"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var mu sync.Mutex
	var failures []string

	group, ctx := errgroup.WithContext(cmd.Context())
	group.SetLimit(concurrency)
	for _, char := range cat.All() {
		group.Go(func() error {
			if _, err := materializer.Materialize(ctx, char.ImageRef); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", char.ID, err))
				mu.Unlock()
			}
			_ = bar.Add(1)
			return nil
		})
	}
	_ = group.Wait()
	fmt.Println()

	if len(failures) > 0 {
		fmt.Printf("\n%d of %d images failed to materialize:\n", len(failures), cat.Len())
		for _, failure := range failures {
			fmt.Printf("  %s\n", failure)
		}
		return fmt.Errorf("%d broken character images", len(failures))
	}

	fmt.Printf("\nAll %d character images materialized\n", cat.Len())
	return nil
}
