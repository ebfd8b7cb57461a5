package main

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/carescout/carescout/internal/score"
)

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Print the effective scoring weights as YAML",
	Long:  "Prints the weight configuration the next run would use, in a shape that can be pasted into config.yaml under score.weights.",
	RunE: func(cmd *cobra.Command, args []string) error {
		weights := cfg.Score.Weights
		if len(weights) == 0 {
			weights = score.DefaultWeights()
		}

		type weightRow struct {
			Criterion string `yaml:"criterion"`
			Weight    int    `yaml:"weight"`
			Tier      string `yaml:"tier"`
		}
		var rows []weightRow
		for _, criterion := range []string{
			score.WeightMandarin, score.WeightMeals, score.WeightCurriculum,
			score.WeightStaffStability, score.WeightDiversity, score.WeightDiscount,
		} {
			if w, ok := weights[criterion]; ok {
				rows = append(rows, weightRow{Criterion: criterion, Weight: w, Tier: score.TierLabel(w)})
			}
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rows)
	},
}

func init() {
	rootCmd.AddCommand(weightsCmd)
}
