package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weibolens",
	Short: "weibolens crawls weibo for hot content and analyzes it.",
}

var configPath *string

func init() {
	configPath = rootCmd.PersistentFlags().StringP(
		"config", "c", "config.json5",
		"Path to the spider config file.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
