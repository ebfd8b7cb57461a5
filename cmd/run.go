package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carescout/carescout/internal/model"
)

var (
	runName    string
	runURLs    []string
	runRefresh bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run enrichment for a single provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := buildPipeline(st)
		if err != nil {
			return err
		}
		opts, err := pipelineOptions(runRefresh, 0)
		if err != nil {
			return err
		}

		cand := model.ProviderCandidate{Name: runName}
		if len(runURLs) > 0 {
			cand.Website = runURLs[0]
			cand.AltWebsites = runURLs[1:]
		}

		row, err := p.Enrich(ctx, cand, opts)
		if err != nil {
			return err
		}

		zap.L().Info("enrichment complete",
			zap.String("provider", row.Name),
			zap.String("status", row.Status),
			zap.Int("score", row.Score),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(row)
	},
}

func init() {
	runCmd.Flags().StringVar(&runName, "name", "", "provider name (required)")
	runCmd.Flags().StringSliceVar(&runURLs, "url", nil, "provider website, repeatable for alternates")
	runCmd.Flags().BoolVar(&runRefresh, "refresh", false, "ignore cached record and re-scrape")
	_ = runCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(runCmd)
}
