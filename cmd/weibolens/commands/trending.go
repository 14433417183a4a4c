package commands

import (
	"fmt"

	"weibolens-backend/services/spider"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(trendingCmd)
}

var trendingCmd = &cobra.Command{
	Use:   "trending <analysis.json>",
	Short: "Print the trending topics of a saved analysis as a table.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := spider.ReadAnalysisJSON(args[0])
		if err != nil {
			return err
		}
		if len(result.Trending) == 0 {
			fmt.Println("no trending topics in this analysis")
			return nil
		}
		fmt.Println(spider.TrendingTable(result.Trending))
		return nil
	},
}
