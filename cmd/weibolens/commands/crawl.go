package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var crawlUsers *bool

func init() {
	crawlUsers = crawlCmd.Flags().Bool(
		"users", false,
		"Also crawl the configured user timelines for keyword matches.",
	)
	rootCmd.AddCommand(crawlCmd)
}

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run one crawl over all configured keywords and write reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := setupCrawl(ctx)
		if err != nil {
			return err
		}
		defer env.close()

		results, err := env.service.Run(ctx)
		if err != nil {
			return err
		}
		for _, result := range results {
			fmt.Printf(
				"%s: %d/%d posts kept, %d trending topics\n",
				result.Keyword,
				result.Analysis.FilteredCount,
				result.Analysis.OriginalCount,
				len(result.Analysis.Trending),
			)
		}

		if *crawlUsers {
			userResults, err := env.service.RunUsers(ctx)
			if err != nil {
				return err
			}
			for _, result := range userResults {
				fmt.Printf("user %s: %d matching posts\n", result.User, len(result.Posts))
			}
		}

		env.persistSeen(ctx)
		return nil
	},
}
