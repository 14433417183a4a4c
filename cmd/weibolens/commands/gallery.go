package commands

import (
	"fmt"
	"path/filepath"

	"weibolens-backend/services/spider"

	"github.com/spf13/cobra"
)

var galleryFromCsv *string

func init() {
	galleryFromCsv = galleryCmd.Flags().String(
		"from-csv", "",
		"Download images for the posts of this CSV before rendering.",
	)
	rootCmd.AddCommand(galleryCmd)
}

var galleryCmd = &cobra.Command{
	Use:   "gallery",
	Short: "Render the downloaded media into a static HTML gallery.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		env, err := setupCrawl(ctx)
		if err != nil {
			return err
		}
		defer env.close()

		if env.media == nil {
			return fmt.Errorf("media_dir is not configured")
		}

		if *galleryFromCsv != "" {
			posts, err := spider.ReadPostsCSV(*galleryFromCsv)
			if err != nil {
				return err
			}
			for _, post := range posts {
				if !post.HasImages {
					continue
				}
				if _, err := env.media.DownloadImages(ctx, post); err != nil {
					return err
				}
			}
		}

		file := filepath.Join(env.config.MediaDir, "gallery.html")
		if err := env.media.WriteGallery(ctx, file); err != nil {
			return err
		}

		stats, err := env.media.Stats(ctx)
		if err != nil {
			return err
		}
		for _, stat := range stats {
			fmt.Printf("%s: %d images\n", stat.Keyword, stat.Count)
		}
		fmt.Printf("gallery written to %s\n", file)
		return nil
	},
}
