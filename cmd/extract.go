package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/pipeline"
)

var (
	extractJSON     bool
	extractForceVLM bool
	extractEnrich   bool
	extractText     string
	extractOCRConf  float64
)

var extractCmd = &cobra.Command{
	Use:   "extract [image]",
	Short: "Extract the contact from one card image, or from --text",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !cmd.Flags().Changed("text") {
			return eris.New("extract: pass an image path or --text")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, "extract")
		if err != nil {
			return err
		}
		defer env.Close()

		opts := pipeline.Options{
			Enrich:   extractEnrich || cfg.Enrich.Enabled,
			ForceVLM: extractForceVLM,
		}

		var r model.Result
		if len(args) == 0 {
			var conf *float64
			if cmd.Flags().Changed("ocr-confidence") {
				conf = &extractOCRConf
			}
			r = env.Pipeline.ProcessText(ctx, extractText, conf, opts)
		} else {
			r = env.Pipeline.ProcessImage(ctx, args[0], opts)
		}

		out := cmd.OutOrStdout()
		if extractJSON {
			return writeJSON(out, r)
		}
		printResult(out, r)
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print the full result as JSON")
	extractCmd.Flags().BoolVar(&extractForceVLM, "force-vlm", false, "read the image with the vision model directly")
	extractCmd.Flags().BoolVar(&extractEnrich, "enrich", false, "enrich the contact with company data")
	extractCmd.Flags().StringVar(&extractText, "text", "", "parse this text instead of an image")
	extractCmd.Flags().Float64Var(&extractOCRConf, "ocr-confidence", 0, "OCR confidence of --text, 0..1")
	rootCmd.AddCommand(extractCmd)
}
