package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/cardimage"
	"github.com/sells-group/cardscan/internal/pipeline"
)

var (
	batchJSON     bool
	batchForceVLM bool
	batchEnrich   bool
	batchOut      string
)

var batchCmd = &cobra.Command{
	Use:   "batch <dir|image>...",
	Short: "Extract contacts from many card images concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "batch")
		if err != nil {
			return err
		}
		defer env.Close()

		paths, err := collectImages(args, env.Pipeline.Images(), env.Pipeline.MaxImages())
		if err != nil {
			return err
		}

		br := env.Pipeline.ProcessBatch(ctx, paths, pipeline.Options{
			Enrich:   batchEnrich || cfg.Enrich.Enabled,
			ForceVLM: batchForceVLM,
		})

		if batchOut != "" {
			f, err := os.Create(batchOut)
			if err != nil {
				return eris.Wrap(err, "batch: create output")
			}
			defer f.Close() //nolint:errcheck
			if err := writeJSON(f, br); err != nil {
				return eris.Wrap(err, "batch: write output")
			}
			zap.L().Info("batch results written", zap.String("path", batchOut))
		}

		out := cmd.OutOrStdout()
		if batchJSON {
			return writeJSON(out, br)
		}
		printBatch(out, br)
		return nil
	},
}

// collectImages expands directories into the card images they contain,
// sorted by name. Explicit file arguments are kept as given so the pipeline
// reports them as invalid instead of silently skipping them.
func collectImages(args []string, v *cardimage.Validator, maxImages int) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, eris.Wrapf(err, "batch: stat %s", arg)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, eris.Wrapf(err, "batch: read dir %s", arg)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || v.CheckName(e.Name()) != nil {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}

	if len(paths) == 0 {
		return nil, eris.New("batch: no card images found")
	}
	if maxImages > 0 && len(paths) > maxImages {
		return nil, eris.Errorf("batch: %d images exceeds batch.max_images %d", len(paths), maxImages)
	}
	return paths, nil
}

func init() {
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "print the batch result as JSON")
	batchCmd.Flags().BoolVar(&batchForceVLM, "force-vlm", false, "read every image with the vision model directly")
	batchCmd.Flags().BoolVar(&batchEnrich, "enrich", false, "enrich contacts with company data")
	batchCmd.Flags().StringVar(&batchOut, "out", "", "also write the JSON result to this file")
	rootCmd.AddCommand(batchCmd)
}
