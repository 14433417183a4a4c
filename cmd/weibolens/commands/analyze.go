package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"weibolens-backend/lib/analysis"
	"weibolens-backend/lib/configutil"
	"weibolens-backend/services/spider"

	"github.com/spf13/cobra"
)

var analyzeOutput *string

func init() {
	analyzeOutput = analyzeCmd.Flags().StringP(
		"output", "o", "",
		"Write the analysis JSON here instead of next to the input.",
	)
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <posts.csv>",
	Short: "Re-analyze a previously exported CSV under the configured thresholds.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		config, err := configutil.ReadConfig[spider.Config](*configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		posts, err := spider.ReadPostsCSV(args[0])
		if err != nil {
			return err
		}

		analyzer, err := analysis.New(analysis.Options{})
		if err != nil {
			return err
		}
		result, err := analyzer.Analyze(ctx, posts, analysis.AnalyzeOptions{
			Filter: analysis.FilterOptions{
				MinLikes:    config.MinLikes,
				MinComments: config.MinComments,
				MinForwards: config.MinForwards,
				MinScore:    config.MinScore,
			},
			ClusterCount: config.ClusterCount,
			TopTopics:    config.TopTopics,
		})
		if err != nil {
			return err
		}

		output := *analyzeOutput
		if output == "" {
			output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_analysis.json"
		}
		if err := spider.WriteAnalysisJSON(output, result); err != nil {
			return err
		}

		keyword := "(all)"
		if len(posts) > 0 && posts[0].Keyword != "" {
			keyword = posts[0].Keyword
		}
		fmt.Fprint(os.Stdout, spider.TrendReport(keyword, result))
		fmt.Printf("\nanalysis written to %s\n", output)
		return nil
	},
}
