package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/cardscan/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect the OCR correction and keyword rule set",
}

var rulesDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the effective rule set as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := rules.LoadOrDefault(cfg.RulesPath)
		if err != nil {
			return err
		}
		out, err := rs.Marshal()
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(out); err != nil {
			return eris.Wrap(err, "rules: write")
		}
		return nil
	},
}

func init() {
	rulesCmd.AddCommand(rulesDumpCmd)
	rootCmd.AddCommand(rulesCmd)
}
