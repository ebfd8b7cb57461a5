package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carescout/carescout/internal/model"
	"github.com/carescout/carescout/internal/sheet"
)

var (
	batchIn       string
	batchOut      string
	batchSheet    string
	batchKeepOnly bool
	batchLimit    int
	batchRefresh  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Enrich providers listed in an xlsx file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		imported, err := sheet.Import(batchIn, sheet.ImportOptions{
			SheetName: batchSheet,
			KeepOnly:  batchKeepOnly,
		})
		if err != nil {
			return err
		}
		if len(imported) == 0 {
			fmt.Println("no providers to process")
			return nil
		}

		candidates := make([]model.ProviderCandidate, len(imported))
		for i, row := range imported {
			candidates[i] = row.ProviderCandidate
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		p, err := buildPipeline(st)
		if err != nil {
			return err
		}
		opts, err := pipelineOptions(batchRefresh, batchLimit)
		if err != nil {
			return err
		}

		rows, err := p.Batch(ctx, candidates, opts)
		if err != nil {
			return err
		}

		if err := sheet.Export(batchOut, rows, opts.Weights); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.String("input", batchIn),
			zap.Int("providers", len(rows)),
			zap.String("output", batchOut),
		)
		fmt.Printf("wrote %d providers to %s\n", len(rows), batchOut)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchIn, "in", "", "input xlsx path (required)")
	batchCmd.Flags().StringVar(&batchOut, "out", "providers_scored.xlsx", "output xlsx path")
	batchCmd.Flags().StringVar(&batchSheet, "sheet", "", "input sheet name (default first sheet)")
	batchCmd.Flags().BoolVar(&batchKeepOnly, "keep-only", false, "process only rows whose Status is 'keep'")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max providers to process, 0 for all")
	batchCmd.Flags().BoolVar(&batchRefresh, "refresh", false, "ignore cached records and re-scrape")
	_ = batchCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(batchCmd)
}
